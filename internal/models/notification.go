package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationLevel string

const (
	LevelInfo  NotificationLevel = "info"
	LevelError NotificationLevel = "error"
)

// Notification is a user-visible message about the outcome of a mutation.
type Notification struct {
	Level      NotificationLevel `json:"level"`
	Entity     string            `json:"entity"`
	Operation  string            `json:"operation"`
	RecordID   uuid.UUID         `json:"recordId"`
	Message    string            `json:"message"`
	Error      string            `json:"error,omitempty"`
	RolledBack bool              `json:"rolledBack"`
	At         time.Time         `json:"at"`
}

// ChangeEvent describes a mutation the backing store has confirmed.
type ChangeEvent struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Entity    string    `json:"entity"`
	Operation string    `json:"operation"`
	RecordID  uuid.UUID `json:"record_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Entity names used in notifications, events and metrics.
const (
	EntityTransaction = "transaction"
	EntityGoal        = "goal"
	EntityCard        = "card"
	EntityAccount     = "account"
	EntityMember      = "member"
	EntityCategory    = "category"
)

// Mutation operation names.
const (
	OpInsert     = "insert"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpContribute = "contribute"
	OpLoad       = "load"
)
