package repository

import (
	"context"
	"time"

	"family-finance/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const goalsTable = "goals"

type GoalRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewGoalRepository(db *pgxpool.Pool, logger *zap.Logger) *GoalRepository {
	return &GoalRepository{
		db:     db,
		logger: logger,
	}
}

func (r *GoalRepository) List(ctx context.Context, owner uuid.UUID) ([]models.FinanceGoal, error) {
	sql, args, err := listQuery(goalsTable, owner,
		"id", "name", "description", "target_amount", "current_amount", "category", "deadline", "status", "yield_type")
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.FinanceGoal
	for rows.Next() {
		var (
			g        models.FinanceGoal
			deadline *time.Time
		)
		if err := rows.Scan(
			&g.ID, &g.Name, &g.Description, &g.TargetAmount, &g.CurrentAmount, &g.Category, &deadline, &g.Status, &g.YieldType,
		); err != nil {
			return nil, err
		}
		g.Deadline = dateFrom(deadline)
		goals = append(goals, g)
	}

	return goals, rows.Err()
}

func (r *GoalRepository) Insert(ctx context.Context, owner uuid.UUID, g models.FinanceGoal) (models.FinanceGoal, error) {
	id, err := insertRow(ctx, r.db, goalsTable, owner, g.ID,
		[]string{"name", "description", "target_amount", "current_amount", "category", "deadline", "status", "yield_type"},
		[]any{g.Name, g.Description, g.TargetAmount, g.CurrentAmount, g.Category, g.Deadline, string(g.Status), string(g.YieldType)},
	)
	if err != nil {
		r.logger.Error("Failed to insert goal", zap.Error(err))
		return models.FinanceGoal{}, err
	}
	return g.WithID(id), nil
}

func (r *GoalRepository) Update(ctx context.Context, owner uuid.UUID, id uuid.UUID, patch models.GoalPatch) error {
	return updateRow(ctx, r.db, goalsTable, owner, id, patch.Columns())
}

func (r *GoalRepository) Delete(ctx context.Context, owner uuid.UUID, id uuid.UUID) error {
	return deleteRow(ctx, r.db, goalsTable, owner, id)
}
