package dto

import (
	"family-finance/internal/models"

	"github.com/google/uuid"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// AcceptedResponse is returned when the caller did not wait for the backend.
type AcceptedResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type CategoryPercentageResponse struct {
	Category   string  `json:"category"`
	Percentage float64 `json:"percentage"`
}

type NotificationsResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Dropped       int                   `json:"dropped"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	ActiveStores int    `json:"activeStores"`
}
