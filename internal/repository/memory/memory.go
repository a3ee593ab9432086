package memory

import (
	"context"
	"fmt"
	"sync"

	"family-finance/internal/models"
	"family-finance/internal/repository"
	"family-finance/internal/store"

	"github.com/google/uuid"
)

// Table keeps one collection per owner in memory, in insertion order.
type Table[T models.Entity[T], P models.Patch[T]] struct {
	mu   sync.Mutex
	rows map[uuid.UUID][]T
}

func NewTable[T models.Entity[T], P models.Patch[T]]() *Table[T, P] {
	return &Table[T, P]{rows: map[uuid.UUID][]T{}}
}

func (t *Table[T, P]) List(ctx context.Context, owner uuid.UUID) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]T(nil), t.rows[owner]...), nil
}

func (t *Table[T, P]) Insert(ctx context.Context, owner uuid.UUID, row T) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if row.GetID() == uuid.Nil {
		row = row.WithID(uuid.New())
	} else if i := t.indexLocked(owner, row.GetID()); i >= 0 {
		return t.rows[owner][i], nil
	}
	t.rows[owner] = append(t.rows[owner], row)
	return row, nil
}

func (t *Table[T, P]) Update(ctx context.Context, owner uuid.UUID, id uuid.UUID, patch P) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexLocked(owner, id)
	if i < 0 {
		return fmt.Errorf("%s: %w", id, repository.ErrNotFound)
	}
	t.rows[owner][i] = patch.Apply(t.rows[owner][i])
	return nil
}

func (t *Table[T, P]) Delete(ctx context.Context, owner uuid.UUID, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if i := t.indexLocked(owner, id); i >= 0 {
		rows := t.rows[owner]
		t.rows[owner] = append(rows[:i:i], rows[i+1:]...)
	}
	return nil
}

func (t *Table[T, P]) indexLocked(owner, id uuid.UUID) int {
	for i, r := range t.rows[owner] {
		if r.GetID() == id {
			return i
		}
	}
	return -1
}

// NewBackend returns an empty in-memory household backend.
func NewBackend() store.Backend {
	return store.Backend{
		Transactions: NewTable[models.Transaction, models.TransactionPatch](),
		Goals:        NewTable[models.FinanceGoal, models.GoalPatch](),
		Cards:        NewTable[models.CreditCard, models.CardPatch](),
		Accounts:     NewTable[models.BankAccount, models.AccountPatch](),
		Profiles:     NewTable[models.FamilyMember, models.MemberPatch](),
		Categories:   NewTable[models.Category, models.CategoryPatch](),
	}
}
