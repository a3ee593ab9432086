package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated identity. Household data is owned by User.ID.
type User struct {
	ID          uuid.UUID `db:"id"`
	DisplayName string    `db:"display_name"`
	Email       string    `db:"email"`
	Password    string    `db:"password"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Identity is what the finance store needs to know about the signed-in user.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
}
