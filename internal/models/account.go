package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountInvestment AccountType = "investment"
	AccountCash       AccountType = "cash"
)

func (t AccountType) IsValid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountInvestment, AccountCash:
		return true
	}
	return false
}

type BankAccount struct {
	ID      uuid.UUID       `json:"id" db:"id"`
	Name    string          `json:"name" db:"name"`
	Type    AccountType     `json:"type" db:"type"`
	Balance decimal.Decimal `json:"balance" db:"balance"`
	Color   string          `json:"color" db:"color"`
}

func (a BankAccount) GetID() uuid.UUID { return a.ID }

func (a BankAccount) WithID(id uuid.UUID) BankAccount {
	a.ID = id
	return a
}

type AccountPatch struct {
	Name    *string          `json:"name,omitempty"`
	Type    *AccountType     `json:"type,omitempty"`
	Balance *decimal.Decimal `json:"balance,omitempty"`
	Color   *string          `json:"color,omitempty"`
}

func (p AccountPatch) Apply(a BankAccount) BankAccount {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Balance != nil {
		a.Balance = *p.Balance
	}
	if p.Color != nil {
		a.Color = *p.Color
	}
	return a
}

func (p AccountPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Type != nil {
		cols["type"] = string(*p.Type)
	}
	if p.Balance != nil {
		cols["balance"] = *p.Balance
	}
	if p.Color != nil {
		cols["color"] = *p.Color
	}
	return cols
}
