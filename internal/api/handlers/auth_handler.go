package handlers

import (
	"errors"

	"family-finance/internal/dto"
	"family-finance/internal/service"
	"family-finance/pkg/auth"
	"family-finance/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Register with email, password and an optional display name
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Registration request"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /user/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.SignUp(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return fiber.NewError(fiber.StatusConflict, "User already exists")
		}
		h.logger.Error("Registration failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Registration failed")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login godoc
// @Summary Login user
// @Description Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Login request"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /user/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.SignIn(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}
		h.logger.Error("Login failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Login failed")
	}

	return c.JSON(resp)
}

// RefreshToken godoc
// @Summary Refresh access token
// @Description Exchange a refresh token for a new token pair; the old refresh token stops working
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token request"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /user/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.authService.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid refresh token")
		}
		h.logger.Error("Token refresh failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Token refresh failed")
	}

	return c.JSON(resp)
}

// Logout godoc
// @Summary Logout user
// @Description Revokes the access token and, if given, the refresh token. The user's loaded data is dropped
// @Tags auth
// @Accept json
// @Security Bearer
// @Param request body dto.SignOutRequest false "Refresh token to revoke"
// @Success 204
// @Failure 401 {object} dto.ErrorResponse
// @Router /user/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := c.Locals(middleware.LocalClaims).(*auth.Claims)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.SignOutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}

	if err := h.authService.SignOut(c.Context(), claims, req.RefreshToken); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
