package dto

import (
	"family-finance/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateTransactionRequest struct {
	Type         models.TransactionType   `json:"type"`
	Amount       decimal.Decimal          `json:"amount"`
	Description  string                   `json:"description"`
	Category     string                   `json:"category"`
	Date         models.Date              `json:"date"`
	AccountID    uuid.UUID                `json:"accountId"`
	MemberID     *uuid.UUID               `json:"memberId,omitempty"`
	Installments *int                     `json:"installments,omitempty"`
	Status       models.TransactionStatus `json:"status,omitempty"`
}

func (r CreateTransactionRequest) Validate() error {
	return firstError(
		transactionType(r.Type),
		positive("amount", r.Amount),
		required("description", r.Description),
		required("category", r.Category),
		requiredDate("date", r.Date),
		requiredID("accountId", r.AccountID),
		installments(r.Installments),
		transactionStatus(r.Status, true),
	)
}

func (r CreateTransactionRequest) ToModel() models.Transaction {
	return models.Transaction{
		Type:         r.Type,
		Amount:       r.Amount,
		Description:  cleanText(r.Description),
		Category:     cleanText(r.Category),
		Date:         r.Date,
		AccountID:    r.AccountID,
		MemberID:     r.MemberID,
		Installments: r.Installments,
		Status:       r.Status,
	}
}

// UpdateTransactionRequest has the shape of models.TransactionPatch.
type UpdateTransactionRequest models.TransactionPatch

func (r UpdateTransactionRequest) Validate() error {
	errs := []error{installments(r.Installments)}
	if r.Type != nil {
		errs = append(errs, transactionType(*r.Type))
	}
	if r.Amount != nil {
		errs = append(errs, positive("amount", *r.Amount))
	}
	if r.Description != nil {
		errs = append(errs, required("description", *r.Description))
	}
	if r.Category != nil {
		errs = append(errs, required("category", *r.Category))
	}
	if r.Date != nil {
		errs = append(errs, requiredDate("date", *r.Date))
	}
	if r.AccountID != nil {
		errs = append(errs, requiredID("accountId", *r.AccountID))
	}
	if r.Status != nil {
		errs = append(errs, transactionStatus(*r.Status, false))
	}
	return firstError(errs...)
}

func (r UpdateTransactionRequest) ToPatch() models.TransactionPatch {
	p := models.TransactionPatch(r)
	p.Source = nil
	p.Description = cleanTextPtr(p.Description)
	p.Category = cleanTextPtr(p.Category)
	return p
}

// TransactionResponse is a transaction plus whether it is still being saved.
type TransactionResponse struct {
	models.Transaction
	IsInstallment bool `json:"isInstallment"`
	Pending       bool `json:"pending"`
}

func NewTransactionResponse(t models.Transaction, pending bool) TransactionResponse {
	return TransactionResponse{Transaction: t, IsInstallment: t.IsInstallment(), Pending: pending}
}

func transactionType(t models.TransactionType) error {
	if !t.IsValid() {
		return invalid("type must be income or expense")
	}
	return nil
}

func transactionStatus(s models.TransactionStatus, allowEmpty bool) error {
	if s == models.StatusPending || s == models.StatusCompleted || (allowEmpty && s == "") {
		return nil
	}
	return invalid("status must be pending or completed")
}

func installments(n *int) error {
	if n != nil && *n < 1 {
		return invalid("installments must be at least 1")
	}
	return nil
}

func requiredDate(field string, d models.Date) error {
	if d.IsZero() {
		return invalid("%s is required", field)
	}
	return nil
}

func requiredID(field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return invalid("%s is required", field)
	}
	return nil
}
