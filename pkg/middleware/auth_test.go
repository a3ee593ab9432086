package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"family-finance/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func newApp(m *auth.JWTManager) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(m, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalUserID).(string) + "|" + c.Locals(LocalEmail).(string))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	m := auth.NewJWTManager("test-secret-0123456789", time.Hour, 24*time.Hour)
	app := newApp(m)

	access, _ := m.GenerateToken("u-1", "Ana", "ana@example.com")
	refresh, _ := m.GenerateRefreshToken("u-1")
	revoked, _ := m.GenerateToken("u-2", "Bia", "bia@example.com")
	claims, _ := m.ValidateToken(revoked)
	m.Revoke(claims)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"access token", "Bearer " + access, fiber.StatusOK},
		{"access token without prefix", access, fiber.StatusOK},
		{"refresh token", "Bearer " + refresh, fiber.StatusUnauthorized},
		{"revoked token", "Bearer " + revoked, fiber.StatusUnauthorized},
		{"garbage", "Bearer abc", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
