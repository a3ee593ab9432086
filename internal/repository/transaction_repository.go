package repository

import (
	"context"
	"time"

	"family-finance/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const transactionsTable = "transactions"

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) List(ctx context.Context, owner uuid.UUID) ([]models.Transaction, error) {
	sql, args, err := listQuery(transactionsTable, owner,
		"id", "type", "amount", "description", "category", "date", "account_id", "card_id", "member_id", "installments", "status")
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var (
			tx                models.Transaction
			date              *time.Time
			accountID, cardID *uuid.UUID
		)
		if err := rows.Scan(
			&tx.ID, &tx.Type, &tx.Amount, &tx.Description, &tx.Category, &date, &accountID, &cardID, &tx.MemberID, &tx.Installments, &tx.Status,
		); err != nil {
			return nil, err
		}
		tx.Date = dateFrom(date)
		switch {
		case cardID != nil:
			tx.AccountID, tx.Source = *cardID, models.SourceCard
		case accountID != nil:
			tx.AccountID, tx.Source = *accountID, models.SourceAccount
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func (r *TransactionRepository) Insert(ctx context.Context, owner uuid.UUID, tx models.Transaction) (models.Transaction, error) {
	src := models.SourceColumns(tx.AccountID, tx.Source)
	id, err := insertRow(ctx, r.db, transactionsTable, owner, tx.ID,
		[]string{"type", "amount", "description", "category", "date", "account_id", "card_id", "member_id", "installments", "status"},
		[]any{string(tx.Type), tx.Amount, tx.Description, tx.Category, tx.Date, src["account_id"], src["card_id"], tx.MemberID, tx.Installments, string(tx.Status)},
	)
	if err != nil {
		r.logger.Error("Failed to insert transaction", zap.Error(err))
		return models.Transaction{}, err
	}
	return tx.WithID(id), nil
}

func (r *TransactionRepository) Update(ctx context.Context, owner uuid.UUID, id uuid.UUID, patch models.TransactionPatch) error {
	return updateRow(ctx, r.db, transactionsTable, owner, id, patch.Columns())
}

func (r *TransactionRepository) Delete(ctx context.Context, owner uuid.UUID, id uuid.UUID) error {
	return deleteRow(ctx, r.db, transactionsTable, owner, id)
}
