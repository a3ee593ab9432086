package metrics

import (
	"time"
)

// Collector records finance-store and persistence metrics.
// Implementations can export to Prometheus or drop everything.
type Collector interface {
	// Store mutations
	RecordMutation(entity, op string, outcome Outcome)

	// Persistence collaborator calls
	RecordPersistence(entity, op string, success bool, duration time.Duration)
	RecordCircuitState(table string, state CircuitState)

	// Session loading
	RecordLoad(success bool, duration time.Duration)
	SetActiveStores(n int)
}

// Outcome is the lifecycle step a mutation reached.
type Outcome string

const (
	OutcomeApplied    Outcome = "applied"
	OutcomeConfirmed  Outcome = "confirmed"
	OutcomeFailed     Outcome = "failed"
	OutcomeRolledBack Outcome = "rolled_back"
	OutcomeStale      Outcome = "stale"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// NoOpCollector discards every measurement.
type NoOpCollector struct{}

func (NoOpCollector) RecordMutation(entity, op string, outcome Outcome) {}

func (NoOpCollector) RecordPersistence(entity, op string, success bool, duration time.Duration) {}

func (NoOpCollector) RecordCircuitState(table string, state CircuitState) {}

func (NoOpCollector) RecordLoad(success bool, duration time.Duration) {}

func (NoOpCollector) SetActiveStores(n int) {}

var _ Collector = NoOpCollector{}
