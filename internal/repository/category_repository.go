package repository

import (
	"context"

	"family-finance/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const categoriesTable = "categories"

type CategoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCategoryRepository(db *pgxpool.Pool, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CategoryRepository) List(ctx context.Context, owner uuid.UUID) ([]models.Category, error) {
	sql, args, err := listQuery(categoriesTable, owner, "id", "name", "type", "color")
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Color); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *CategoryRepository) Insert(ctx context.Context, owner uuid.UUID, c models.Category) (models.Category, error) {
	id, err := insertRow(ctx, r.db, categoriesTable, owner, c.ID,
		[]string{"name", "type", "color"},
		[]any{c.Name, string(c.Type), c.Color},
	)
	if err != nil {
		r.logger.Error("Failed to insert category", zap.Error(err))
		return models.Category{}, err
	}
	return c.WithID(id), nil
}

// InsertBatch stores several categories in one statement, skipping names the
// owner already has for the same type.
func (r *CategoryRepository) InsertBatch(ctx context.Context, owner uuid.UUID, categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}

	builder := squirrel.Insert(categoriesTable).
		Columns("user_id", "name", "type", "color").
		Suffix("ON CONFLICT (user_id, type, name) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	for _, c := range categories {
		builder = builder.Values(owner, c.Name, string(c.Type), c.Color)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *CategoryRepository) Update(ctx context.Context, owner uuid.UUID, id uuid.UUID, patch models.CategoryPatch) error {
	return updateRow(ctx, r.db, categoriesTable, owner, id, patch.Columns())
}

func (r *CategoryRepository) Delete(ctx context.Context, owner uuid.UUID, id uuid.UUID) error {
	return deleteRow(ctx, r.db, categoriesTable, owner, id)
}
