package api

import (
	"errors"
	"strings"
	"time"

	_ "family-finance/docs"
	"family-finance/internal/api/handlers"
	"family-finance/internal/dto"
	"family-finance/pkg/auth"
	"family-finance/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	CORSOrigins  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Gatherer serves /metrics when set.
	Gatherer     prometheus.Gatherer
	// ActiveStores reports the number of loaded households for /health.
	ActiveStores func() int
}

func SetupRouter(
	cfg RouterConfig,
	authHandler *handlers.AuthHandler,
	financeHandler *handlers.FinanceHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		UnescapePath: true,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code == fiber.StatusInternalServerError {
				appLogger.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(dto.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: strings.Join([]string{
			fiber.MethodGet, fiber.MethodPost, fiber.MethodPatch, fiber.MethodDelete, fiber.MethodOptions,
		}, ","),
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		resp := dto.HealthResponse{Status: "ok"}
		if cfg.ActiveStores != nil {
			resp.ActiveStores = cfg.ActiveStores()
		}
		return c.JSON(resp)
	})
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	requireAuth := middleware.AuthMiddleware(jwtManager, appLogger)

	// Auth routes
	authRoutes := app.Group("/user/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshToken)
	authRoutes.Post("/logout", requireAuth, authHandler.Logout)

	// Protected routes
	protected := app.Group("/api/v1", requireAuth)

	protected.Get("/filters", financeHandler.GetFilters)
	protected.Patch("/filters", financeHandler.UpdateFilters)

	transactions := protected.Group("/transactions")
	transactions.Get("", financeHandler.ListTransactions)
	transactions.Post("", financeHandler.CreateTransaction)
	transactions.Patch("/:id", financeHandler.UpdateTransaction)
	transactions.Delete("/:id", financeHandler.DeleteTransaction)

	goals := protected.Group("/goals")
	goals.Get("", financeHandler.ListGoals)
	goals.Post("", financeHandler.CreateGoal)
	goals.Patch("/:id", financeHandler.UpdateGoal)
	goals.Delete("/:id", financeHandler.DeleteGoal)
	goals.Post("/:id/contributions", financeHandler.AddContribution)

	accounts := protected.Group("/accounts")
	accounts.Get("", financeHandler.ListAccounts)
	accounts.Post("", financeHandler.CreateAccount)
	accounts.Patch("/:id", financeHandler.UpdateAccount)
	accounts.Delete("/:id", financeHandler.DeleteAccount)

	cards := protected.Group("/cards")
	cards.Get("", financeHandler.ListCards)
	cards.Post("", financeHandler.CreateCard)
	cards.Patch("/:id", financeHandler.UpdateCard)
	cards.Delete("/:id", financeHandler.DeleteCard)

	members := protected.Group("/members")
	members.Get("", financeHandler.ListMembers)
	members.Post("", financeHandler.CreateMember)
	members.Patch("/:id", financeHandler.UpdateMember)
	members.Delete("/:id", financeHandler.DeleteMember)

	categories := protected.Group("/categories")
	categories.Get("", financeHandler.ListCategories)
	categories.Post("", financeHandler.CreateCategory)
	categories.Patch("/:id", financeHandler.UpdateCategory)
	categories.Delete("/:id", financeHandler.DeleteCategory)

	dashboard := protected.Group("/dashboard")
	dashboard.Get("/summary", financeHandler.Summary)
	dashboard.Get("/categories", financeHandler.ExpensesByCategory)
	dashboard.Get("/categories/:name/percentage", financeHandler.CategoryPercentage)
	dashboard.Get("/monthly-flow", financeHandler.MonthlyFlow)

	protected.Get("/notifications", financeHandler.Notifications)

	return app
}
