package models

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMemberRole is given to profiles created on first sign-in.
const DefaultMemberRole = "Member"

// FamilyMember is a row of the profiles table.
type FamilyMember struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Role      string           `json:"role" db:"role"`
	AvatarURL string           `json:"avatarUrl,omitempty" db:"avatar_url"`
	Income    *decimal.Decimal `json:"income,omitempty" db:"income"`
	Email     string           `json:"email,omitempty" db:"email"`
}

func (m FamilyMember) GetID() uuid.UUID { return m.ID }

func (m FamilyMember) WithID(id uuid.UUID) FamilyMember {
	m.ID = id
	return m
}

// DefaultProfile builds the profile a user gets when none exists yet: the
// name is the e-mail local part and the avatar is generated from it.
func DefaultProfile(userID uuid.UUID, email string) FamilyMember {
	name := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		name = email[:at]
	}
	return FamilyMember{
		ID:        userID,
		Name:      name,
		Role:      DefaultMemberRole,
		AvatarURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(name),
		Email:     email,
	}
}

type MemberPatch struct {
	Name      *string          `json:"name,omitempty"`
	Role      *string          `json:"role,omitempty"`
	AvatarURL *string          `json:"avatarUrl,omitempty"`
	Income    *decimal.Decimal `json:"income,omitempty"`
	Email     *string          `json:"email,omitempty"`
}

func (p MemberPatch) Apply(m FamilyMember) FamilyMember {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Role != nil {
		m.Role = *p.Role
	}
	if p.AvatarURL != nil {
		m.AvatarURL = *p.AvatarURL
	}
	if p.Income != nil {
		income := *p.Income
		m.Income = &income
	}
	if p.Email != nil {
		m.Email = *p.Email
	}
	return m
}

func (p MemberPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Role != nil {
		cols["role"] = *p.Role
	}
	if p.AvatarURL != nil {
		cols["avatar_url"] = *p.AvatarURL
	}
	if p.Income != nil {
		cols["income"] = *p.Income
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	return cols
}
