package repository

import (
	"context"

	"family-finance/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const accountsTable = "accounts"

type AccountRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAccountRepository(db *pgxpool.Pool, logger *zap.Logger) *AccountRepository {
	return &AccountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AccountRepository) List(ctx context.Context, owner uuid.UUID) ([]models.BankAccount, error) {
	sql, args, err := listQuery(accountsTable, owner, "id", "name", "type", "balance", "color")
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.BankAccount
	for rows.Next() {
		var a models.BankAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Balance, &a.Color); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

func (r *AccountRepository) Insert(ctx context.Context, owner uuid.UUID, a models.BankAccount) (models.BankAccount, error) {
	id, err := insertRow(ctx, r.db, accountsTable, owner, a.ID,
		[]string{"name", "type", "balance", "color"},
		[]any{a.Name, string(a.Type), a.Balance, a.Color},
	)
	if err != nil {
		r.logger.Error("Failed to insert account", zap.Error(err))
		return models.BankAccount{}, err
	}
	return a.WithID(id), nil
}

func (r *AccountRepository) Update(ctx context.Context, owner uuid.UUID, id uuid.UUID, patch models.AccountPatch) error {
	return updateRow(ctx, r.db, accountsTable, owner, id, patch.Columns())
}

func (r *AccountRepository) Delete(ctx context.Context, owner uuid.UUID, id uuid.UUID) error {
	return deleteRow(ctx, r.db, accountsTable, owner, id)
}
