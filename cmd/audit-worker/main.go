package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"family-finance/internal/events"
	"family-finance/internal/models"
	"family-finance/pkg/config"
	"family-finance/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.AMQP.Enabled() {
		log.Fatal("AMQP_URL is required for the audit worker")
	}

	appLogger, err := logger.Init(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auditLogger := appLogger.Named("audit")
	auditLogger.Info("Audit worker started",
		zap.String("exchange", cfg.AMQP.Exchange),
		zap.String("queue", cfg.AMQP.Queue))

	err = events.ConsumeWithReconnect(ctx, cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, appLogger,
		func(_ context.Context, e models.ChangeEvent) error {
			auditLogger.Info("Change confirmed",
				zap.String("event_id", e.ID.String()),
				zap.String("owner_id", e.OwnerID.String()),
				zap.String("entity", e.Entity),
				zap.String("operation", e.Operation),
				zap.String("record_id", e.RecordID.String()),
				zap.Time("at", e.Timestamp))
			return nil
		})
	if err != nil && !errors.Is(err, context.Canceled) {
		auditLogger.Fatal("Audit consumer stopped", zap.Error(err))
	}
	auditLogger.Info("Audit worker stopped")
}
