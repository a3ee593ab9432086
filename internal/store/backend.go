package store

import (
	"context"
	"errors"

	"family-finance/internal/models"

	"github.com/google/uuid"
)

// Table is the persistence collaborator for one collection. Every call is
// scoped to the owning user.
//
// Insert stores row and returns it with the id the backend assigned. A row
// whose id is uuid.Nil gets a fresh id; a row carrying an id is stored under
// that id and left untouched if it already exists.
type Table[T any, P models.Patch[T]] interface {
	List(ctx context.Context, owner uuid.UUID) ([]T, error)
	Insert(ctx context.Context, owner uuid.UUID, row T) (T, error)
	Update(ctx context.Context, owner uuid.UUID, id uuid.UUID, patch P) error
	Delete(ctx context.Context, owner uuid.UUID, id uuid.UUID) error
}

type (
	TransactionTable = Table[models.Transaction, models.TransactionPatch]
	GoalTable        = Table[models.FinanceGoal, models.GoalPatch]
	CardTable        = Table[models.CreditCard, models.CardPatch]
	AccountTable     = Table[models.BankAccount, models.AccountPatch]
	ProfileTable     = Table[models.FamilyMember, models.MemberPatch]
	CategoryTable    = Table[models.Category, models.CategoryPatch]
)

// Backend bundles the six tables a household is stored in.
type Backend struct {
	Transactions TransactionTable
	Goals        GoalTable
	Cards        CardTable
	Accounts     AccountTable
	Profiles     ProfileTable
	Categories   CategoryTable
}

func (b Backend) Validate() error {
	var errs []error
	if b.Transactions == nil {
		errs = append(errs, errors.New("transactions table is required"))
	}
	if b.Goals == nil {
		errs = append(errs, errors.New("goals table is required"))
	}
	if b.Cards == nil {
		errs = append(errs, errors.New("cards table is required"))
	}
	if b.Accounts == nil {
		errs = append(errs, errors.New("accounts table is required"))
	}
	if b.Profiles == nil {
		errs = append(errs, errors.New("profiles table is required"))
	}
	if b.Categories == nil {
		errs = append(errs, errors.New("categories table is required"))
	}
	return errors.Join(errs...)
}

// Notifier surfaces mutation outcomes to the user.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// EventPublisher is told about every mutation the backend confirmed.
type EventPublisher interface {
	Publish(ctx context.Context, event models.ChangeEvent) error
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, models.Notification) {}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, models.ChangeEvent) error { return nil }
