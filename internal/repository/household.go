package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"family-finance/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("row not found")
	ErrDuplicate = errors.New("duplicate key")
)

// insertRow inserts one household row and returns its id. Without an id the
// database generates one; with an id an existing row is left as it is.
func insertRow(ctx context.Context, db *pgxpool.Pool, table string, owner, id uuid.UUID, columns []string, values []any) (uuid.UUID, error) {
	columns = append([]string{"user_id"}, columns...)
	values = append([]any{owner}, values...)
	suffix := "RETURNING id"
	if id != uuid.Nil {
		columns = append(columns, "id")
		values = append(values, id)
		suffix = "ON CONFLICT (id) DO NOTHING RETURNING id"
	}

	query := squirrel.Insert(table).
		Columns(columns...).
		Values(values...).
		Suffix(suffix).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return uuid.Nil, err
	}

	var newID uuid.UUID
	err = db.QueryRow(ctx, sql, args...).Scan(&newID)
	if errors.Is(err, pgx.ErrNoRows) && id != uuid.Nil {
		return id, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	return newID, nil
}

func updateRow(ctx context.Context, db *pgxpool.Pool, table string, owner, id uuid.UUID, columns map[string]any) error {
	if len(columns) == 0 {
		return nil
	}
	query := squirrel.Update(table).
		SetMap(columns).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "user_id": owner}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", table, id, ErrNotFound)
	}
	return nil
}

// deleteRow removes the row if it exists.
func deleteRow(ctx context.Context, db *pgxpool.Pool, table string, owner, id uuid.UUID) error {
	query := squirrel.Delete(table).
		Where(squirrel.Eq{"id": id, "user_id": owner}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, sql, args...)
	return err
}

func listQuery(table string, owner uuid.UUID, columns ...string) (string, []any, error) {
	return squirrel.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": owner}).
		OrderBy("created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func dateFrom(t *time.Time) models.Date {
	if t == nil {
		return models.Date{}
	}
	return models.DateOf(*t)
}
