package handlers

import (
	"family-finance/internal/dto"
	"family-finance/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFilters godoc
// @Summary Get the active filters
// @Tags filters
// @Produce json
// @Security Bearer
// @Success 200 {object} models.GlobalFilters
// @Router /api/v1/filters [get]
func (h *FinanceHandler) GetFilters(c *fiber.Ctx) error {
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return c.JSON(hh.Store.Filters())
}

// UpdateFilters godoc
// @Summary Change the active filters
// @Description Only the given fields change. memberId "all" selects every member
// @Tags filters
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.FilterRequest true "Filters"
// @Success 200 {object} models.GlobalFilters
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/filters [patch]
func (h *FinanceHandler) UpdateFilters(c *fiber.Ctx) error {
	var req dto.FilterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	patch, err := req.ToPatch()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return c.JSON(hh.Store.SetFilters(patch))
}

// Summary godoc
// @Summary Dashboard summary
// @Description Balance, income, expenses, savings rate, category breakdown and monthly flow from one consistent snapshot
// @Tags dashboard
// @Produce json
// @Security Bearer
// @Success 200 {object} analytics.Summary
// @Router /api/v1/dashboard/summary [get]
func (h *FinanceHandler) Summary(c *fiber.Ctx) error {
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return c.JSON(hh.Engine.Summary())
}

// ExpensesByCategory godoc
// @Summary Expenses grouped by category
// @Tags dashboard
// @Produce json
// @Security Bearer
// @Success 200 {array} analytics.CategoryExpense
// @Router /api/v1/dashboard/categories [get]
func (h *FinanceHandler) ExpensesByCategory(c *fiber.Ctx) error {
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return c.JSON(hh.Engine.ExpensesByCategory())
}

// CategoryPercentage godoc
// @Summary Share of expenses spent in one category
// @Tags dashboard
// @Produce json
// @Security Bearer
// @Param name path string true "Category name"
// @Success 200 {object} dto.CategoryPercentageResponse
// @Router /api/v1/dashboard/categories/{name}/percentage [get]
func (h *FinanceHandler) CategoryPercentage(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Category name is required")
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.CategoryPercentageResponse{
		Category:   name,
		Percentage: hh.Engine.CategoryPercentage(name),
	})
}

// MonthlyFlow godoc
// @Summary Income and expenses for the last 12 months
// @Tags dashboard
// @Produce json
// @Security Bearer
// @Success 200 {array} analytics.MonthFlow
// @Router /api/v1/dashboard/monthly-flow [get]
func (h *FinanceHandler) MonthlyFlow(c *fiber.Ctx) error {
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return c.JSON(hh.Engine.MonthlyFlow())
}

// Notifications godoc
// @Summary Read and clear pending notifications
// @Tags notifications
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.NotificationsResponse
// @Router /api/v1/notifications [get]
func (h *FinanceHandler) Notifications(c *fiber.Ctx) error {
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	items := hh.Inbox.Drain()
	if items == nil {
		items = []models.Notification{}
	}
	return c.JSON(dto.NotificationsResponse{
		Notifications: items,
		Dropped:       hh.Inbox.Dropped(),
	})
}
