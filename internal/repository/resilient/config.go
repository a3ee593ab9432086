package resilient

import "time"

// Config configures timeouts and circuit breaking for one table.
type Config struct {
	// Timeout bounds every call. Zero disables it.
	Timeout time.Duration

	// MaxRequests allowed through while the breaker is half-open.
	MaxRequests uint32

	// Interval after which a closed breaker clears its counts. Zero never clears.
	Interval time.Duration

	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration

	// The breaker trips once at least MinRequests were made and the failure
	// ratio reached FailureRate.
	MinRequests uint32
	FailureRate float64
}

func DefaultConfig() Config {
	return Config{
		Timeout:     5 * time.Second,
		MaxRequests: 5,
		Interval:    60 * time.Second,
		OpenTimeout: 30 * time.Second,
		MinRequests: 10,
		FailureRate: 0.5,
	}
}
