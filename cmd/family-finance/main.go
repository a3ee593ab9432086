package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"family-finance/internal/api"
	"family-finance/internal/api/handlers"
	"family-finance/internal/events"
	"family-finance/internal/metrics"
	promcollector "family-finance/internal/metrics/prometheus"
	"family-finance/internal/repository"
	"family-finance/internal/repository/memory"
	"family-finance/internal/repository/resilient"
	"family-finance/internal/service"
	"family-finance/internal/store"
	"family-finance/pkg/auth"
	"family-finance/pkg/config"
	"family-finance/pkg/logger"
	"family-finance/pkg/postgres"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// @title Family Finance API
// @version 1.0
// @description Household finance dashboard: transactions, goals, accounts, cards, members and aggregated figures

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	appLogger, err := logger.Init(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger.Info("Starting family finance service", zap.String("backend", cfg.Backend.Kind))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics
	var collector metrics.Collector = metrics.NoOpCollector{}
	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		pc := promcollector.NewPrometheusCollector(cfg.Metrics.Namespace)
		if err := pc.Register(registry); err != nil {
			appLogger.Fatal("Failed to register metrics", zap.Error(err))
		}
		collector, gatherer = pc, registry
	}

	// Persistence
	var (
		backend store.Backend
		users   service.UserStore
	)
	switch cfg.Backend.Kind {
	case config.BackendPostgres:
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if cfg.Database.RunMigrations {
			if err := postgres.RunMigrations(db, appLogger); err != nil {
				appLogger.Fatal("Failed to run migrations", zap.Error(err))
			}
		}
		backend = repository.NewBackend(db, appLogger)
		users = repository.NewUserRepository(db, appLogger)
	default:
		appLogger.Warn("Using in-memory backend, data is lost on restart")
		backend = memory.NewBackend()
		users = memory.NewUsers()
	}

	backend = resilient.WrapBackend(backend, resilient.Config{
		Timeout:     cfg.Resilience.Timeout,
		MaxRequests: cfg.Resilience.BreakerMaxRequests,
		Interval:    cfg.Resilience.BreakerInterval,
		OpenTimeout: cfg.Resilience.BreakerTimeout,
		MinRequests: cfg.Resilience.BreakerMinRequests,
		FailureRate: cfg.Resilience.BreakerFailureRate,
	}, collector, appLogger)

	// Change events
	var publisher store.EventPublisher
	if cfg.AMQP.Enabled() {
		client, err := events.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to AMQP", zap.Error(err))
		}
		defer client.Close()
		publisher = client
	}

	// Services
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)
	authService := service.NewAuthService(users, jwtManager, appLogger)

	hub, err := service.NewFinanceHub(service.HubOptions{
		Backend:   backend,
		Events:    publisher,
		Metrics:   collector,
		Logger:    appLogger,
		MaxStores: cfg.Hub.MaxStores,
		IdleTTL:   cfg.Hub.IdleTTL,
		InboxSize: cfg.Hub.InboxSize,
	})
	if err != nil {
		appLogger.Fatal("Failed to create finance hub", zap.Error(err))
	}
	unsubscribe := authService.Subscribe(hub.HandleSession)
	defer unsubscribe()
	go hub.RunJanitor(ctx, time.Minute)

	// HTTP
	app := api.SetupRouter(
		api.RouterConfig{
			CORSOrigins:  cfg.Server.CORSOrigins,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			Gatherer:     gatherer,
			ActiveStores: hub.Len,
		},
		handlers.NewAuthHandler(authService, appLogger),
		handlers.NewFinanceHandler(hub, appLogger),
		jwtManager,
		appLogger,
	)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(cfg.Server.WriteTimeout); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
	hub.Close()
}
