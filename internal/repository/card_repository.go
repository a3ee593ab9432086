package repository

import (
	"context"

	"family-finance/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const cardsTable = "cards"

type CardRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCardRepository(db *pgxpool.Pool, logger *zap.Logger) *CardRepository {
	return &CardRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CardRepository) List(ctx context.Context, owner uuid.UUID) ([]models.CreditCard, error) {
	sql, args, err := listQuery(cardsTable, owner,
		"id", "name", "closing_day", "due_day", "limit_amount", "current_invoice", "theme", "last_4_digits", "logo_url", "bank_name")
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.CreditCard
	for rows.Next() {
		var c models.CreditCard
		if err := rows.Scan(
			&c.ID, &c.Name, &c.ClosingDay, &c.DueDay, &c.Limit, &c.CurrentInvoice, &c.Theme, &c.Last4Digits, &c.LogoURL, &c.BankName,
		); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}

	return cards, rows.Err()
}

func (r *CardRepository) Insert(ctx context.Context, owner uuid.UUID, c models.CreditCard) (models.CreditCard, error) {
	id, err := insertRow(ctx, r.db, cardsTable, owner, c.ID,
		[]string{"name", "closing_day", "due_day", "limit_amount", "current_invoice", "theme", "last_4_digits", "logo_url", "bank_name"},
		[]any{c.Name, c.ClosingDay, c.DueDay, c.Limit, c.CurrentInvoice, string(c.Theme), c.Last4Digits, c.LogoURL, c.BankName},
	)
	if err != nil {
		r.logger.Error("Failed to insert card", zap.Error(err))
		return models.CreditCard{}, err
	}
	return c.WithID(id), nil
}

func (r *CardRepository) Update(ctx context.Context, owner uuid.UUID, id uuid.UUID, patch models.CardPatch) error {
	return updateRow(ctx, r.db, cardsTable, owner, id, patch.Columns())
}

func (r *CardRepository) Delete(ctx context.Context, owner uuid.UUID, id uuid.UUID) error {
	return deleteRow(ctx, r.db, cardsTable, owner, id)
}
