package memory

import (
	"context"
	"strings"
	"sync"

	"family-finance/internal/models"
	"family-finance/internal/repository"

	"github.com/google/uuid"
)

// Users is an in-memory user directory.
type Users struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
}

func NewUsers() *Users {
	return &Users{byID: map[uuid.UUID]models.User{}, byEmail: map[string]uuid.UUID{}}
}

func (u *Users) Create(_ context.Context, user *models.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, ok := u.byEmail[key]; ok {
		return repository.ErrDuplicate
	}
	u.byID[user.ID] = *user
	u.byEmail[key] = user.ID
	return nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	id, ok := u.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := u.byID[id]
	return &user, nil
}

func (u *Users) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}
