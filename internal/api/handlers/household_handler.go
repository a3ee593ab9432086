package handlers

import (
	"family-finance/internal/dto"
	"family-finance/internal/models"

	"github.com/gofiber/fiber/v2"
)

func cardResponse(c models.CreditCard) any {
	return dto.CardResponse{CreditCard: c, AvailableLimit: c.AvailableLimit()}
}

// ListAccounts godoc
// @Summary List bank accounts
// @Tags accounts
// @Produce json
// @Security Bearer
// @Success 200 {array} models.BankAccount
// @Router /api/v1/accounts [get]
func (h *FinanceHandler) ListAccounts(c *fiber.Ctx) error {
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return c.JSON(hh.Store.Accounts())
}

// CreateAccount godoc
// @Summary Add a bank account
// @Tags accounts
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateAccountRequest true "Account"
// @Param wait query bool false "Wait for the backend (default true)"
// @Success 201 {object} models.BankAccount
// @Success 202 {object} dto.AcceptedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/accounts [post]
func (h *FinanceHandler) CreateAccount(c *fiber.Ctx) error {
	var req dto.CreateAccountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.AddAccount(req.ToModel()), fiber.StatusCreated, asIs[models.BankAccount])
}

// UpdateAccount godoc
// @Summary Update a bank account
// @Tags accounts
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Account ID"
// @Param request body dto.UpdateAccountRequest true "Fields to change"
// @Success 200 {object} models.BankAccount
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/accounts/{id} [patch]
func (h *FinanceHandler) UpdateAccount(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAccountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.UpdateAccount(id, req.ToPatch()), fiber.StatusOK, asIs[models.BankAccount])
}

// DeleteAccount godoc
// @Summary Delete a bank account
// @Tags accounts
// @Security Bearer
// @Param id path string true "Account ID"
// @Success 204
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/accounts/{id} [delete]
func (h *FinanceHandler) DeleteAccount(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.DeleteAccount(id), fiber.StatusNoContent, nil)
}

// ListCards godoc
// @Summary List credit cards
// @Tags cards
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.CardResponse
// @Router /api/v1/cards [get]
func (h *FinanceHandler) ListCards(c *fiber.Ctx) error {
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	cards := hh.Store.Cards()
	out := make([]any, 0, len(cards))
	for _, card := range cards {
		out = append(out, cardResponse(card))
	}
	return c.JSON(out)
}

// CreateCard godoc
// @Summary Add a credit card
// @Tags cards
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateCardRequest true "Card"
// @Param wait query bool false "Wait for the backend (default true)"
// @Success 201 {object} dto.CardResponse
// @Success 202 {object} dto.AcceptedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/cards [post]
func (h *FinanceHandler) CreateCard(c *fiber.Ctx) error {
	var req dto.CreateCardRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.AddCard(req.ToModel()), fiber.StatusCreated, cardResponse)
}

// UpdateCard godoc
// @Summary Update a credit card
// @Tags cards
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Card ID"
// @Param request body dto.UpdateCardRequest true "Fields to change"
// @Success 200 {object} dto.CardResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/cards/{id} [patch]
func (h *FinanceHandler) UpdateCard(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCardRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.UpdateCard(id, req.ToPatch()), fiber.StatusOK, cardResponse)
}

// DeleteCard godoc
// @Summary Delete a credit card
// @Tags cards
// @Security Bearer
// @Param id path string true "Card ID"
// @Success 204
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/cards/{id} [delete]
func (h *FinanceHandler) DeleteCard(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.DeleteCard(id), fiber.StatusNoContent, nil)
}

// ListMembers godoc
// @Summary List family members
// @Tags members
// @Produce json
// @Security Bearer
// @Success 200 {array} models.FamilyMember
// @Router /api/v1/members [get]
func (h *FinanceHandler) ListMembers(c *fiber.Ctx) error {
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return c.JSON(hh.Store.Members())
}

// CreateMember godoc
// @Summary Add a family member
// @Tags members
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateMemberRequest true "Member"
// @Param wait query bool false "Wait for the backend (default true)"
// @Success 201 {object} models.FamilyMember
// @Success 202 {object} dto.AcceptedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/members [post]
func (h *FinanceHandler) CreateMember(c *fiber.Ctx) error {
	var req dto.CreateMemberRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.AddMember(req.ToModel()), fiber.StatusCreated, asIs[models.FamilyMember])
}

// UpdateMember godoc
// @Summary Update a family member
// @Tags members
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Member ID"
// @Param request body dto.UpdateMemberRequest true "Fields to change"
// @Success 200 {object} models.FamilyMember
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/members/{id} [patch]
func (h *FinanceHandler) UpdateMember(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateMemberRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.UpdateMember(id, req.ToPatch()), fiber.StatusOK, asIs[models.FamilyMember])
}

// DeleteMember godoc
// @Summary Delete a family member
// @Tags members
// @Security Bearer
// @Param id path string true "Member ID"
// @Success 204
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/members/{id} [delete]
func (h *FinanceHandler) DeleteMember(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.DeleteMember(id), fiber.StatusNoContent, nil)
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Security Bearer
// @Success 200 {array} models.Category
// @Router /api/v1/categories [get]
func (h *FinanceHandler) ListCategories(c *fiber.Ctx) error {
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return c.JSON(hh.Store.Categories())
}

// CreateCategory godoc
// @Summary Add a category
// @Tags categories
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateCategoryRequest true "Category"
// @Param wait query bool false "Wait for the backend (default true)"
// @Success 201 {object} models.Category
// @Success 202 {object} dto.AcceptedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/categories [post]
func (h *FinanceHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.AddCategory(req.ToModel()), fiber.StatusCreated, asIs[models.Category])
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Category ID"
// @Param request body dto.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} models.Category
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/categories/{id} [patch]
func (h *FinanceHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.UpdateCategory(id, req.ToPatch()), fiber.StatusOK, asIs[models.Category])
}

// DeleteCategory godoc
// @Summary Delete a category
// @Tags categories
// @Security Bearer
// @Param id path string true "Category ID"
// @Success 204
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/categories/{id} [delete]
func (h *FinanceHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	hh, err := h.household(c)
	if err != nil {
		return err
	}
	return respond(c, h.logger, hh.Store.DeleteCategory(id), fiber.StatusNoContent, nil)
}
