package handlers

import (
	"family-finance/internal/dto"
	"family-finance/internal/models"

	"github.com/gofiber/fiber/v2"
)

func goalResponse(g models.FinanceGoal) any {
	return dto.GoalResponse{FinanceGoal: g, Progress: g.Progress()}
}

// ListGoals godoc
// @Summary List savings goals
// @Tags goals
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.GoalResponse
// @Router /api/v1/goals [get]
func (h *FinanceHandler) ListGoals(c *fiber.Ctx) error {
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	goals := hh.Store.Goals()
	out := make([]any, 0, len(goals))
	for _, g := range goals {
		out = append(out, goalResponse(g))
	}
	return c.JSON(out)
}

// CreateGoal godoc
// @Summary Add a savings goal
// @Tags goals
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateGoalRequest true "Goal"
// @Param wait query bool false "Wait for the backend (default true)"
// @Success 201 {object} dto.GoalResponse
// @Success 202 {object} dto.AcceptedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/goals [post]
func (h *FinanceHandler) CreateGoal(c *fiber.Ctx) error {
	var req dto.CreateGoalRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.AddGoal(req.ToModel()), fiber.StatusCreated, goalResponse)
}

// UpdateGoal godoc
// @Summary Update or archive a savings goal
// @Tags goals
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Goal ID"
// @Param request body dto.UpdateGoalRequest true "Fields to change"
// @Param wait query bool false "Wait for the backend (default true)"
// @Success 200 {object} dto.GoalResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/goals/{id} [patch]
func (h *FinanceHandler) UpdateGoal(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateGoalRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.UpdateGoal(id, req.ToPatch()), fiber.StatusOK, goalResponse)
}

// DeleteGoal godoc
// @Summary Delete a savings goal
// @Tags goals
// @Security Bearer
// @Param id path string true "Goal ID"
// @Success 204
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/goals/{id} [delete]
func (h *FinanceHandler) DeleteGoal(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.DeleteGoal(id), fiber.StatusNoContent, nil)
}

// AddContribution godoc
// @Summary Deposit into a savings goal
// @Description Adds the amount to the goal's current amount and saves the new total
// @Tags goals
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Goal ID"
// @Param request body dto.ContributionRequest true "Deposit"
// @Success 200 {object} dto.GoalResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/goals/{id}/contributions [post]
func (h *FinanceHandler) AddContribution(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.ContributionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.AddGoalContribution(id, req.Amount), fiber.StatusOK, goalResponse)
}
