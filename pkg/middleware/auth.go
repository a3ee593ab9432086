package middleware

import (
	"errors"
	"strings"

	"family-finance/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Keys under which the authenticated identity is stored in fiber locals.
const (
	LocalUserID      = "userID"
	LocalEmail       = "email"
	LocalDisplayName = "displayName"
	LocalClaims      = "claims"
)

// AuthMiddleware accepts only unrevoked access tokens.
func AuthMiddleware(jwtManager *auth.JWTManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			logger.Debug("Missing authorization token", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization token required",
			})
		}

		claims, err := jwtManager.ValidateKind(token, auth.KindAccess)
		if err != nil {
			logger.Warn("Rejected token", zap.String("path", c.Path()), zap.Error(err))
			msg := "Invalid or expired token"
			if errors.Is(err, auth.ErrTokenRevoked) {
				msg = "Token has been revoked"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": msg,
			})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalDisplayName, claims.DisplayName)
		c.Locals(LocalClaims, claims)

		return c.Next()
	}
}

// BearerToken returns the Authorization header without its "Bearer " prefix.
func BearerToken(c *fiber.Ctx) string {
	token := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(token) > 7 && strings.EqualFold(token[:7], "Bearer ") {
		token = token[7:]
	}
	return token
}
