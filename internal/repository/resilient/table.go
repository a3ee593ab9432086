package resilient

import (
	"context"
	"errors"
	"time"

	"family-finance/internal/metrics"
	"family-finance/internal/models"
	"family-finance/internal/store"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var (
	ErrCircuitOpen = errors.New("persistence circuit breaker is open")
	ErrTimeout     = errors.New("persistence call timed out")
)

// Table wraps a store.Table with a call timeout and a circuit breaker.
type Table[T any, P models.Patch[T]] struct {
	name    string
	inner   store.Table[T, P]
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	metrics metrics.Collector
	logger  *zap.Logger
}

func Wrap[T any, P models.Patch[T]](name string, inner store.Table[T, P], cfg Config, collector metrics.Collector, logger *zap.Logger) *Table[T, P] {
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	logger = logger.Named("resilience").Named(name)

	t := &Table[T, P]{
		name:    name,
		inner:   inner,
		timeout: cfg.Timeout,
		metrics: collector,
		logger:  logger,
	}

	t.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRate
		},
		IsSuccessful: func(err error) bool {
			// the caller giving up says nothing about the database
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("table", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)

			var state metrics.CircuitState
			switch to {
			case gobreaker.StateClosed:
				state = metrics.CircuitClosed
			case gobreaker.StateHalfOpen:
				state = metrics.CircuitHalfOpen
			case gobreaker.StateOpen:
				state = metrics.CircuitOpen
			}
			t.metrics.RecordCircuitState(name, state)
		},
	})

	return t
}

// State returns the breaker's current state.
func (t *Table[T, P]) State() gobreaker.State {
	return t.cb.State()
}

func (t *Table[T, P]) List(ctx context.Context, owner uuid.UUID) ([]T, error) {
	res, err := t.run(ctx, "list", func(ctx context.Context) (any, error) {
		return t.inner.List(ctx, owner)
	})
	if err != nil {
		return nil, err
	}
	return res.([]T), nil
}

func (t *Table[T, P]) Insert(ctx context.Context, owner uuid.UUID, row T) (T, error) {
	res, err := t.run(ctx, "insert", func(ctx context.Context) (any, error) {
		return t.inner.Insert(ctx, owner, row)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

func (t *Table[T, P]) Update(ctx context.Context, owner uuid.UUID, id uuid.UUID, patch P) error {
	_, err := t.run(ctx, "update", func(ctx context.Context) (any, error) {
		return nil, t.inner.Update(ctx, owner, id, patch)
	})
	return err
}

func (t *Table[T, P]) Delete(ctx context.Context, owner uuid.UUID, id uuid.UUID) error {
	_, err := t.run(ctx, "delete", func(ctx context.Context) (any, error) {
		return nil, t.inner.Delete(ctx, owner, id)
	})
	return err
}

func (t *Table[T, P]) run(ctx context.Context, op string, call func(context.Context) (any, error)) (any, error) {
	start := time.Now()

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	res, err := t.cb.Execute(func() (interface{}, error) {
		return call(ctx)
	})
	if err == nil {
		return res, nil
	}

	duration := time.Since(start)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		t.logger.Warn("circuit breaker open - request rejected", zap.String("operation", op))
		return nil, ErrCircuitOpen
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.logger.Warn("operation timeout",
			zap.String("operation", op),
			zap.Duration("timeout", t.timeout),
			zap.Duration("elapsed", duration),
		)
		return nil, ErrTimeout
	}
	t.logger.Error("operation failed",
		zap.String("operation", op),
		zap.Duration("duration", duration),
		zap.Error(err),
	)
	return nil, err
}

// WrapBackend wraps every table of b.
func WrapBackend(b store.Backend, cfg Config, collector metrics.Collector, logger *zap.Logger) store.Backend {
	return store.Backend{
		Transactions: Wrap(models.EntityTransaction, b.Transactions, cfg, collector, logger),
		Goals:        Wrap(models.EntityGoal, b.Goals, cfg, collector, logger),
		Cards:        Wrap(models.EntityCard, b.Cards, cfg, collector, logger),
		Accounts:     Wrap(models.EntityAccount, b.Accounts, cfg, collector, logger),
		Profiles:     Wrap(models.EntityMember, b.Profiles, cfg, collector, logger),
		Categories:   Wrap(models.EntityCategory, b.Categories, cfg, collector, logger),
	}
}
