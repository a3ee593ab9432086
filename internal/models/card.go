package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CardTheme string

const (
	ThemeBlack  CardTheme = "black"
	ThemeLime   CardTheme = "lime"
	ThemeWhite  CardTheme = "white"
	ThemePurple CardTheme = "purple"
	ThemeBlue   CardTheme = "blue"
)

func (t CardTheme) IsValid() bool {
	switch t {
	case ThemeBlack, ThemeLime, ThemeWhite, ThemePurple, ThemeBlue:
		return true
	}
	return false
}

type CreditCard struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	ClosingDay     int             `json:"closingDay" db:"closing_day"`
	DueDay         int             `json:"dueDay" db:"due_day"`
	Limit          decimal.Decimal `json:"limit" db:"limit_amount"`
	CurrentInvoice decimal.Decimal `json:"currentInvoice" db:"current_invoice"`
	Theme          CardTheme       `json:"theme" db:"theme"`
	Last4Digits    string          `json:"last4Digits,omitempty" db:"last_4_digits"`
	LogoURL        string          `json:"logoUrl,omitempty" db:"logo_url"`
	BankName       string          `json:"bankName,omitempty" db:"bank_name"`
}

func (c CreditCard) GetID() uuid.UUID { return c.ID }

func (c CreditCard) WithID(id uuid.UUID) CreditCard {
	c.ID = id
	return c
}

// AvailableLimit is Limit minus CurrentInvoice; negative when over the limit.
func (c CreditCard) AvailableLimit() decimal.Decimal {
	return c.Limit.Sub(c.CurrentInvoice)
}

type CardPatch struct {
	Name           *string          `json:"name,omitempty"`
	ClosingDay     *int             `json:"closingDay,omitempty"`
	DueDay         *int             `json:"dueDay,omitempty"`
	Limit          *decimal.Decimal `json:"limit,omitempty"`
	CurrentInvoice *decimal.Decimal `json:"currentInvoice,omitempty"`
	Theme          *CardTheme       `json:"theme,omitempty"`
	Last4Digits    *string          `json:"last4Digits,omitempty"`
	LogoURL        *string          `json:"logoUrl,omitempty"`
	BankName       *string          `json:"bankName,omitempty"`
}

func (p CardPatch) Apply(c CreditCard) CreditCard {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.ClosingDay != nil {
		c.ClosingDay = *p.ClosingDay
	}
	if p.DueDay != nil {
		c.DueDay = *p.DueDay
	}
	if p.Limit != nil {
		c.Limit = *p.Limit
	}
	if p.CurrentInvoice != nil {
		c.CurrentInvoice = *p.CurrentInvoice
	}
	if p.Theme != nil {
		c.Theme = *p.Theme
	}
	if p.Last4Digits != nil {
		c.Last4Digits = *p.Last4Digits
	}
	if p.LogoURL != nil {
		c.LogoURL = *p.LogoURL
	}
	if p.BankName != nil {
		c.BankName = *p.BankName
	}
	return c
}

func (p CardPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.ClosingDay != nil {
		cols["closing_day"] = *p.ClosingDay
	}
	if p.DueDay != nil {
		cols["due_day"] = *p.DueDay
	}
	if p.Limit != nil {
		cols["limit_amount"] = *p.Limit
	}
	if p.CurrentInvoice != nil {
		cols["current_invoice"] = *p.CurrentInvoice
	}
	if p.Theme != nil {
		cols["theme"] = string(*p.Theme)
	}
	if p.Last4Digits != nil {
		cols["last_4_digits"] = *p.Last4Digits
	}
	if p.LogoURL != nil {
		cols["logo_url"] = *p.LogoURL
	}
	if p.BankName != nil {
		cols["bank_name"] = *p.BankName
	}
	return cols
}
