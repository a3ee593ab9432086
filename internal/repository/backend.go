package repository

import (
	"family-finance/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NewBackend returns the PostgreSQL tables of a household.
func NewBackend(db *pgxpool.Pool, logger *zap.Logger) store.Backend {
	return store.Backend{
		Transactions: NewTransactionRepository(db, logger),
		Goals:        NewGoalRepository(db, logger),
		Cards:        NewCardRepository(db, logger),
		Accounts:     NewAccountRepository(db, logger),
		Profiles:     NewProfileRepository(db, logger),
		Categories:   NewCategoryRepository(db, logger),
	}
}
