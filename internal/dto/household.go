package dto

import (
	"family-finance/internal/models"

	"github.com/shopspring/decimal"
)

type CreateCardRequest struct {
	Name           string           `json:"name"`
	ClosingDay     int              `json:"closingDay"`
	DueDay         int              `json:"dueDay"`
	Limit          decimal.Decimal  `json:"limit"`
	CurrentInvoice decimal.Decimal  `json:"currentInvoice"`
	Theme          models.CardTheme `json:"theme"`
	Last4Digits    string           `json:"last4Digits,omitempty"`
	LogoURL        string           `json:"logoUrl,omitempty"`
	BankName       string           `json:"bankName,omitempty"`
}

func (r CreateCardRequest) Validate() error {
	errs := []error{
		required("name", r.Name),
		dayOfMonth("closingDay", r.ClosingDay),
		dayOfMonth("dueDay", r.DueDay),
		notNegative("limit", r.Limit),
		notNegative("currentInvoice", r.CurrentInvoice),
		last4(r.Last4Digits),
	}
	if r.Theme != "" {
		errs = append(errs, cardTheme(r.Theme))
	}
	return firstError(errs...)
}

func (r CreateCardRequest) ToModel() models.CreditCard {
	theme := r.Theme
	if theme == "" {
		theme = models.ThemeBlack
	}
	return models.CreditCard{
		Name:           r.Name,
		ClosingDay:     r.ClosingDay,
		DueDay:         r.DueDay,
		Limit:          r.Limit,
		CurrentInvoice: r.CurrentInvoice,
		Theme:          theme,
		Last4Digits:    r.Last4Digits,
		LogoURL:        r.LogoURL,
		BankName:       r.BankName,
	}
}

type UpdateCardRequest models.CardPatch

func (r UpdateCardRequest) Validate() error {
	var errs []error
	if r.Name != nil {
		errs = append(errs, required("name", *r.Name))
	}
	if r.ClosingDay != nil {
		errs = append(errs, dayOfMonth("closingDay", *r.ClosingDay))
	}
	if r.DueDay != nil {
		errs = append(errs, dayOfMonth("dueDay", *r.DueDay))
	}
	if r.Limit != nil {
		errs = append(errs, notNegative("limit", *r.Limit))
	}
	if r.CurrentInvoice != nil {
		errs = append(errs, notNegative("currentInvoice", *r.CurrentInvoice))
	}
	if r.Theme != nil {
		errs = append(errs, cardTheme(*r.Theme))
	}
	if r.Last4Digits != nil {
		errs = append(errs, last4(*r.Last4Digits))
	}
	return firstError(errs...)
}

func (r UpdateCardRequest) ToPatch() models.CardPatch { return models.CardPatch(r) }

// CardResponse is a card plus its remaining limit.
type CardResponse struct {
	models.CreditCard
	AvailableLimit decimal.Decimal `json:"availableLimit"`
}

type CreateAccountRequest struct {
	Name    string             `json:"name"`
	Type    models.AccountType `json:"type"`
	Balance decimal.Decimal    `json:"balance"`
	Color   string             `json:"color"`
}

func (r CreateAccountRequest) Validate() error {
	return firstError(
		required("name", r.Name),
		accountType(r.Type),
		hexColor("color", r.Color),
	)
}

func (r CreateAccountRequest) ToModel() models.BankAccount {
	return models.BankAccount{Name: r.Name, Type: r.Type, Balance: r.Balance, Color: r.Color}
}

type UpdateAccountRequest models.AccountPatch

func (r UpdateAccountRequest) Validate() error {
	var errs []error
	if r.Name != nil {
		errs = append(errs, required("name", *r.Name))
	}
	if r.Type != nil {
		errs = append(errs, accountType(*r.Type))
	}
	if r.Color != nil {
		errs = append(errs, hexColor("color", *r.Color))
	}
	return firstError(errs...)
}

func (r UpdateAccountRequest) ToPatch() models.AccountPatch { return models.AccountPatch(r) }

type CreateMemberRequest struct {
	Name      string           `json:"name"`
	Role      string           `json:"role"`
	AvatarURL string           `json:"avatarUrl,omitempty"`
	Income    *decimal.Decimal `json:"income,omitempty"`
	Email     string           `json:"email,omitempty"`
}

func (r CreateMemberRequest) Validate() error {
	errs := []error{required("name", r.Name)}
	if r.Income != nil {
		errs = append(errs, notNegative("income", *r.Income))
	}
	return firstError(errs...)
}

func (r CreateMemberRequest) ToModel() models.FamilyMember {
	return models.FamilyMember{
		Name:      r.Name,
		Role:      r.Role,
		AvatarURL: r.AvatarURL,
		Income:    r.Income,
		Email:     r.Email,
	}
}

type UpdateMemberRequest models.MemberPatch

func (r UpdateMemberRequest) Validate() error {
	var errs []error
	if r.Name != nil {
		errs = append(errs, required("name", *r.Name))
	}
	if r.Income != nil {
		errs = append(errs, notNegative("income", *r.Income))
	}
	return firstError(errs...)
}

func (r UpdateMemberRequest) ToPatch() models.MemberPatch { return models.MemberPatch(r) }

type CreateCategoryRequest struct {
	Name  string                 `json:"name"`
	Type  models.TransactionType `json:"type"`
	Color string                 `json:"color"`
}

func (r CreateCategoryRequest) Validate() error {
	return firstError(
		required("name", r.Name),
		transactionType(r.Type),
		hexColor("color", r.Color),
	)
}

func (r CreateCategoryRequest) ToModel() models.Category {
	return models.Category{Name: r.Name, Type: r.Type, Color: r.Color}
}

type UpdateCategoryRequest models.CategoryPatch

func (r UpdateCategoryRequest) Validate() error {
	var errs []error
	if r.Name != nil {
		errs = append(errs, required("name", *r.Name))
	}
	if r.Type != nil {
		errs = append(errs, transactionType(*r.Type))
	}
	if r.Color != nil {
		errs = append(errs, hexColor("color", *r.Color))
	}
	return firstError(errs...)
}

func (r UpdateCategoryRequest) ToPatch() models.CategoryPatch { return models.CategoryPatch(r) }

func cardTheme(t models.CardTheme) error {
	if !t.IsValid() {
		return invalid("unknown theme %q", t)
	}
	return nil
}

func accountType(t models.AccountType) error {
	if !t.IsValid() {
		return invalid("type must be checking, savings, investment or cash")
	}
	return nil
}

func last4(s string) error {
	if s == "" {
		return nil
	}
	if len(s) != 4 {
		return invalid("last4Digits must have exactly 4 digits")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return invalid("last4Digits must have exactly 4 digits")
		}
	}
	return nil
}
