package models

import "github.com/google/uuid"

type Category struct {
	ID    uuid.UUID       `json:"id" db:"id"`
	Name  string          `json:"name" db:"name"`
	Type  TransactionType `json:"type" db:"type"`
	Color string          `json:"color" db:"color"`
}

func (c Category) GetID() uuid.UUID { return c.ID }

func (c Category) WithID(id uuid.UUID) Category {
	c.ID = id
	return c
}

// DefaultCategories seeds a new household.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Salário", Type: TypeIncome, Color: "#22C55E"},
		{Name: "Freelance", Type: TypeIncome, Color: "#10B981"},
		{Name: "Investimentos", Type: TypeIncome, Color: "#14B8A6"},
		{Name: "Alimentação", Type: TypeExpense, Color: "#F97316"},
		{Name: "Transporte", Type: TypeExpense, Color: "#3B82F6"},
		{Name: "Moradia", Type: TypeExpense, Color: "#8B5CF6"},
		{Name: "Saúde", Type: TypeExpense, Color: "#EF4444"},
		{Name: "Educação", Type: TypeExpense, Color: "#EAB308"},
		{Name: "Lazer", Type: TypeExpense, Color: "#EC4899"},
	}
}

type CategoryPatch struct {
	Name  *string          `json:"name,omitempty"`
	Type  *TransactionType `json:"type,omitempty"`
	Color *string          `json:"color,omitempty"`
}

func (p CategoryPatch) Apply(c Category) Category {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	return c
}

func (p CategoryPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Type != nil {
		cols["type"] = string(*p.Type)
	}
	if p.Color != nil {
		cols["color"] = *p.Color
	}
	return cols
}
