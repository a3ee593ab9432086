package repository

import (
	"context"

	"family-finance/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const profilesTable = "profiles"

// ProfileRepository stores family members. The signed-in user's own profile
// shares its id with the user.
type ProfileRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProfileRepository(db *pgxpool.Pool, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ProfileRepository) List(ctx context.Context, owner uuid.UUID) ([]models.FamilyMember, error) {
	sql, args, err := listQuery(profilesTable, owner, "id", "name", "role", "avatar_url", "income", "email")
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.FamilyMember
	for rows.Next() {
		var m models.FamilyMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.AvatarURL, &m.Income, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

func (r *ProfileRepository) Insert(ctx context.Context, owner uuid.UUID, m models.FamilyMember) (models.FamilyMember, error) {
	id, err := insertRow(ctx, r.db, profilesTable, owner, m.ID,
		[]string{"name", "role", "avatar_url", "income", "email"},
		[]any{m.Name, m.Role, m.AvatarURL, m.Income, m.Email},
	)
	if err != nil {
		r.logger.Error("Failed to insert profile", zap.Error(err))
		return models.FamilyMember{}, err
	}
	return m.WithID(id), nil
}

func (r *ProfileRepository) Update(ctx context.Context, owner uuid.UUID, id uuid.UUID, patch models.MemberPatch) error {
	return updateRow(ctx, r.db, profilesTable, owner, id, patch.Columns())
}

func (r *ProfileRepository) Delete(ctx context.Context, owner uuid.UUID, id uuid.UUID) error {
	return deleteRow(ctx, r.db, profilesTable, owner, id)
}
