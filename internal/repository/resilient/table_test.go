package resilient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"family-finance/internal/metrics"
	"family-finance/internal/models"
	"family-finance/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var errDown = errors.New("connection refused")

type brokenTable struct {
	delay time.Duration
}

func (b brokenTable) List(ctx context.Context, _ uuid.UUID) ([]models.Category, error) {
	if b.delay > 0 {
		select {
		case <-time.After(b.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, errDown
}

func (b brokenTable) Insert(context.Context, uuid.UUID, models.Category) (models.Category, error) {
	return models.Category{}, errDown
}

func (b brokenTable) Update(context.Context, uuid.UUID, uuid.UUID, models.CategoryPatch) error {
	return errDown
}

func (b brokenTable) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return errDown
}

type stateRecorder struct {
	metrics.NoOpCollector
	mu     sync.Mutex
	states []metrics.CircuitState
}

func (r *stateRecorder) RecordCircuitState(_ string, s metrics.CircuitState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MinRequests = 3
	cfg.FailureRate = 0.5
	cfg.OpenTimeout = time.Hour
	return cfg
}

func TestPassThrough(t *testing.T) {
	inner := memory.NewTable[models.Category, models.CategoryPatch]()
	table := Wrap[models.Category, models.CategoryPatch]("categories", inner, testConfig(), nil, zap.NewNop())
	ctx := context.Background()
	owner := uuid.New()

	stored, err := table.Insert(ctx, owner, models.Category{Name: "Pets", Type: models.TypeExpense})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	color := "#123456"
	if err := table.Update(ctx, owner, stored.ID, models.CategoryPatch{Color: &color}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	rows, err := table.List(ctx, owner)
	if err != nil || len(rows) != 1 || rows[0].Color != color {
		t.Fatalf("List = %+v, %v", rows, err)
	}
	if err := table.Delete(ctx, owner, stored.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rows, _ := table.List(ctx, owner); len(rows) != 0 {
		t.Errorf("rows after delete = %+v", rows)
	}
	if table.State() != gobreaker.StateClosed {
		t.Errorf("state = %v", table.State())
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	rec := &stateRecorder{}
	table := Wrap[models.Category, models.CategoryPatch]("categories", brokenTable{}, testConfig(), rec, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := table.List(ctx, uuid.New()); !errors.Is(err, errDown) {
			t.Fatalf("call %d err = %v, want backend error", i, err)
		}
	}

	if _, err := table.List(ctx, uuid.New()); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
	if table.State() != gobreaker.StateOpen {
		t.Errorf("state = %v, want open", table.State())
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.states) != 1 || rec.states[0] != metrics.CircuitOpen {
		t.Errorf("recorded states = %v", rec.states)
	}
}

func TestTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 10 * time.Millisecond
	table := Wrap[models.Category, models.CategoryPatch]("categories", brokenTable{delay: time.Second}, cfg, nil, zap.NewNop())

	if _, err := table.List(context.Background(), uuid.New()); !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

func TestWrapBackend(t *testing.T) {
	b := WrapBackend(memory.NewBackend(), testConfig(), nil, zap.NewNop())
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if _, ok := b.Goals.(*Table[models.FinanceGoal, models.GoalPatch]); !ok {
		t.Errorf("goals table is %T", b.Goals)
	}
}
