package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
)

// Source tells which collection a transaction's AccountID points into.
type Source string

const (
	SourceAccount Source = "account"
	SourceCard    Source = "card"
)

type Transaction struct {
	ID           uuid.UUID         `json:"id" db:"id"`
	Type         TransactionType   `json:"type" db:"type"`
	Amount       decimal.Decimal   `json:"amount" db:"amount"`
	Description  string            `json:"description" db:"description"`
	Category     string            `json:"category" db:"category"`
	Date         Date              `json:"date" db:"date"`
	AccountID    uuid.UUID         `json:"accountId" db:"account_id"`
	Source       Source            `json:"source"`
	MemberID     *uuid.UUID        `json:"memberId,omitempty" db:"member_id"`
	Installments *int              `json:"installments,omitempty" db:"installments"`
	Status       TransactionStatus `json:"status" db:"status"`
}

func (t Transaction) GetID() uuid.UUID { return t.ID }

func (t Transaction) WithID(id uuid.UUID) Transaction {
	t.ID = id
	return t
}

// IsInstallment reports whether the purchase is split in more than one part.
func (t Transaction) IsInstallment() bool {
	return t.Installments != nil && *t.Installments > 1
}

// Clone returns a copy that shares no pointers with t.
func (t Transaction) Clone() Transaction {
	if t.MemberID != nil {
		id := *t.MemberID
		t.MemberID = &id
	}
	if t.Installments != nil {
		n := *t.Installments
		t.Installments = &n
	}
	return t
}

// SourceColumns maps the polymorphic AccountID onto the account_id/card_id
// wire columns.
func SourceColumns(id uuid.UUID, src Source) map[string]any {
	if src == SourceCard {
		return map[string]any{"account_id": nil, "card_id": id}
	}
	return map[string]any{"account_id": id, "card_id": nil}
}

// TransactionPatch is a partial transaction update. Nil fields are left as is.
type TransactionPatch struct {
	Type         *TransactionType   `json:"type,omitempty"`
	Amount       *decimal.Decimal   `json:"amount,omitempty"`
	Description  *string            `json:"description,omitempty"`
	Category     *string            `json:"category,omitempty"`
	Date         *Date              `json:"date,omitempty"`
	AccountID    *uuid.UUID         `json:"accountId,omitempty"`
	Source       *Source            `json:"-"`
	MemberID     *uuid.UUID         `json:"memberId,omitempty"`
	Installments *int               `json:"installments,omitempty"`
	Status       *TransactionStatus `json:"status,omitempty"`
}

func (p TransactionPatch) Apply(t Transaction) Transaction {
	t = t.Clone()
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.AccountID != nil {
		t.AccountID = *p.AccountID
	}
	if p.Source != nil {
		t.Source = *p.Source
	}
	if p.MemberID != nil {
		id := *p.MemberID
		t.MemberID = &id
	}
	if p.Installments != nil {
		n := *p.Installments
		t.Installments = &n
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	return t
}

func (p TransactionPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Type != nil {
		cols["type"] = string(*p.Type)
	}
	if p.Amount != nil {
		cols["amount"] = *p.Amount
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.Date != nil {
		cols["date"] = *p.Date
	}
	if p.AccountID != nil {
		src := SourceAccount
		if p.Source != nil {
			src = *p.Source
		}
		for k, v := range SourceColumns(*p.AccountID, src) {
			cols[k] = v
		}
	}
	if p.MemberID != nil {
		cols["member_id"] = *p.MemberID
	}
	if p.Installments != nil {
		cols["installments"] = *p.Installments
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	return cols
}
