package store

import (
	"context"
	"errors"
	"sync"

	"family-finance/internal/models"

	"github.com/google/uuid"
)

var errBackendDown = errors.New("backend unavailable")

// fakeTable keeps rows in memory. Calls for an op block while a gate is set
// for it and fail while an error is set for it.
type fakeTable[T models.Entity[T], P models.Patch[T]] struct {
	mu      sync.Mutex
	rows    []T
	gates   map[string]chan struct{}
	errs    map[string]error
	calls   map[string]int
	patches []P
}

func newFakeTable[T models.Entity[T], P models.Patch[T]](rows ...T) *fakeTable[T, P] {
	return &fakeTable[T, P]{
		rows:  rows,
		gates: map[string]chan struct{}{},
		errs:  map[string]error{},
		calls: map[string]int{},
	}
}

// hold makes op calls block until the returned func is called.
func (f *fakeTable[T, P]) hold(op string) (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gates[op] = gate
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

func (f *fakeTable[T, P]) fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
}

func (f *fakeTable[T, P]) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeTable[T, P]) snapshot() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]T(nil), f.rows...)
}

func (f *fakeTable[T, P]) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls[op]++
	gate := f.gates[op]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[op]
}

func (f *fakeTable[T, P]) List(ctx context.Context, owner uuid.UUID) ([]T, error) {
	if err := f.enter(ctx, "list"); err != nil {
		return nil, err
	}
	return f.snapshot(), nil
}

func (f *fakeTable[T, P]) Insert(ctx context.Context, owner uuid.UUID, row T) (T, error) {
	if err := f.enter(ctx, "insert"); err != nil {
		var zero T
		return zero, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if row.GetID() == uuid.Nil {
		row = row.WithID(uuid.New())
	} else {
		for _, r := range f.rows {
			if r.GetID() == row.GetID() {
				return r, nil
			}
		}
	}
	f.rows = append(f.rows, row)
	return row, nil
}

func (f *fakeTable[T, P]) Update(ctx context.Context, owner uuid.UUID, id uuid.UUID, patch P) error {
	if err := f.enter(ctx, "update"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patch)
	for i, r := range f.rows {
		if r.GetID() == id {
			f.rows[i] = patch.Apply(r)
		}
	}
	return nil
}

func (f *fakeTable[T, P]) Delete(ctx context.Context, owner uuid.UUID, id uuid.UUID) error {
	if err := f.enter(ctx, "delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rows {
		if r.GetID() == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			break
		}
	}
	return nil
}

type fakeBackend struct {
	transactions *fakeTable[models.Transaction, models.TransactionPatch]
	goals        *fakeTable[models.FinanceGoal, models.GoalPatch]
	cards        *fakeTable[models.CreditCard, models.CardPatch]
	accounts     *fakeTable[models.BankAccount, models.AccountPatch]
	profiles     *fakeTable[models.FamilyMember, models.MemberPatch]
	categories   *fakeTable[models.Category, models.CategoryPatch]
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		transactions: newFakeTable[models.Transaction, models.TransactionPatch](),
		goals:        newFakeTable[models.FinanceGoal, models.GoalPatch](),
		cards:        newFakeTable[models.CreditCard, models.CardPatch](),
		accounts:     newFakeTable[models.BankAccount, models.AccountPatch](),
		profiles:     newFakeTable[models.FamilyMember, models.MemberPatch](),
		categories:   newFakeTable[models.Category, models.CategoryPatch](),
	}
}

func (f *fakeBackend) backend() Backend {
	return Backend{
		Transactions: f.transactions,
		Goals:        f.goals,
		Cards:        f.cards,
		Accounts:     f.accounts,
		Profiles:     f.profiles,
		Categories:   f.categories,
	}
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []models.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recordingNotifier) all() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.items...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.ChangeEvent
}

func (r *recordingPublisher) Publish(_ context.Context, e models.ChangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) all() []models.ChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ChangeEvent(nil), r.events...)
}
