package handlers

import (
	"family-finance/internal/dto"
	"family-finance/internal/models"
	"family-finance/internal/store"

	"github.com/gofiber/fiber/v2"
)

// ListTransactions godoc
// @Summary List transactions
// @Description Transactions matching the active filters, newest state first as held in memory
// @Tags transactions
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.TransactionResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/transactions [get]
func (h *FinanceHandler) ListTransactions(c *fiber.Ctx) error {
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	txs := hh.Engine.FilteredTransactions()
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		status, _ := hh.Store.TransactionStatus(t.ID)
		out = append(out, dto.NewTransactionResponse(t, status == store.Pending))
	}
	return c.JSON(out)
}

// CreateTransaction godoc
// @Summary Add a transaction
// @Description Applied immediately; rolled back if the backend rejects it
// @Tags transactions
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateTransactionRequest true "Transaction"
// @Param wait query bool false "Wait for the backend (default true)"
// @Success 201 {object} models.Transaction
// @Success 202 {object} dto.AcceptedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/transactions [post]
func (h *FinanceHandler) CreateTransaction(c *fiber.Ctx) error {
	var req dto.CreateTransactionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	op := hh.Store.AddTransaction(req.ToModel())
	return respond(c, h.logger, op, fiber.StatusCreated, asIs[models.Transaction])
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Partial update. A backend failure is reported but the change stays applied
// @Tags transactions
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Fields to change"
// @Param wait query bool false "Wait for the backend (default true)"
// @Success 200 {object} models.Transaction
// @Success 202 {object} dto.AcceptedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/transactions/{id} [patch]
func (h *FinanceHandler) UpdateTransaction(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTransactionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	op := hh.Store.UpdateTransaction(id, req.ToPatch())
	return respond(c, h.logger, op, fiber.StatusOK, asIs[models.Transaction])
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security Bearer
// @Param id path string true "Transaction ID"
// @Param wait query bool false "Wait for the backend (default true)"
// @Success 204
// @Success 202 {object} dto.AcceptedResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/transactions/{id} [delete]
func (h *FinanceHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.DeleteTransaction(id), fiber.StatusNoContent, nil)
}
