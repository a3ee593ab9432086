package handlers

import (
	"context"
	"errors"

	"family-finance/internal/dto"
	"family-finance/internal/models"
	"family-finance/internal/service"
	"family-finance/internal/store"
	"family-finance/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FinanceHandler serves the household endpoints of the signed-in user.
type FinanceHandler struct {
	hub    *service.FinanceHub
	logger *zap.Logger
}

func NewFinanceHandler(hub *service.FinanceHub, logger *zap.Logger) *FinanceHandler {
	return &FinanceHandler{
		hub:    hub,
		logger: logger.Named("finance"),
	}
}

func getIdentity(c *fiber.Ctx) (models.Identity, error) {
	raw, ok := c.Locals(middleware.LocalUserID).(string)
	if !ok {
		return models.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return models.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	email, _ := c.Locals(middleware.LocalEmail).(string)
	name, _ := c.Locals(middleware.LocalDisplayName).(string)
	return models.Identity{UserID: id, Email: email, DisplayName: name}, nil
}

// household returns the caller's loaded household.
func (h *FinanceHandler) household(c *fiber.Ctx) (*service.Household, error) {
	id, err := getIdentity(c)
	if err != nil {
		return nil, err
	}
	hh, err := h.hub.Acquire(c.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load household", zap.String("user_id", id.UserID.String()), zap.Error(err))
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "Could not load your data")
	}
	return hh, nil
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

type validator interface {
	Validate() error
}

// parseBody decodes the request body into req and validates it.
func parseBody(c *fiber.Ctx, req validator) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// respond writes the outcome of a store mutation. With ?wait=false the caller
// gets 202 and the optimistic id without waiting for the backend.
func respond[T any](c *fiber.Ctx, logger *zap.Logger, op *store.Op[T], status int, render func(T) any) error {
	if !c.QueryBool("wait", true) {
		select {
		case <-op.Done():
		default:
			return c.Status(fiber.StatusAccepted).JSON(dto.AcceptedResponse{ID: op.TempID, Status: "pending"})
		}
	}

	value, err := op.Wait(c.Context())
	if err != nil {
		return storeError(logger, err)
	}
	if render == nil {
		return c.SendStatus(status)
	}
	return c.Status(status).JSON(render(value))
}

func storeError(logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Record not found")
	case errors.Is(err, store.ErrPending):
		return fiber.NewError(fiber.StatusConflict, "Record is still being saved, try again shortly")
	case errors.Is(err, store.ErrStale):
		return fiber.NewError(fiber.StatusConflict, "Your session changed before the change was saved")
	case errors.Is(err, store.ErrNoSession), errors.Is(err, store.ErrClosed):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Your data is not loaded")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fiber.NewError(fiber.StatusGatewayTimeout, "Timed out waiting for the change to be saved")
	default:
		logger.Warn("Persistence failed", zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "Could not save the change")
	}
}

func asIs[T any](v T) any { return v }
