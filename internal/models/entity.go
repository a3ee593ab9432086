package models

import "github.com/google/uuid"

// Entity is implemented by every collection row kept by the finance store.
type Entity[T any] interface {
	GetID() uuid.UUID
	WithID(id uuid.UUID) T
}

// Patch is a partial update for rows of type T. Apply merges the set fields
// into a row and Columns lists the same fields by their wire column name.
type Patch[T any] interface {
	Apply(row T) T
	Columns() map[string]any
}

// TransactionType tells whether money came in or went out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}
