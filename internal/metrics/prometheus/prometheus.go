package prometheus

import (
	"time"

	"family-finance/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements metrics.Collector for Prometheus.
type PrometheusCollector struct {
	mutations    *prometheus.CounterVec
	persistence  *prometheus.CounterVec
	persistLat   *prometheus.HistogramVec
	circuitState *prometheus.GaugeVec
	circuitOpens *prometheus.CounterVec
	loads        *prometheus.CounterVec
	loadLatency  prometheus.Histogram
	activeStores prometheus.Gauge
}

// NewPrometheusCollector creates a collector whose metric names are prefixed
// with namespace.
func NewPrometheusCollector(namespace string) *PrometheusCollector {
	return &PrometheusCollector{
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_mutations_total",
				Help:      "Finance store mutations by entity, operation and outcome",
			},
			[]string{"entity", "op", "outcome"},
		),
		persistence: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "persistence_calls_total",
				Help:      "Calls to the backing store by entity, operation and result",
			},
			[]string{"entity", "op", "result"},
		),
		persistLat: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "persistence_call_duration_seconds",
				Help:      "Latency of calls to the backing store",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"entity", "op"},
		),
		circuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state per table (0=closed, 1=open, 2=half-open)",
			},
			[]string{"table"},
		),
		circuitOpens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_opens_total",
				Help:      "Number of times a table's circuit breaker opened",
			},
			[]string{"table"},
		),
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_loads_total",
				Help:      "Full refetches of a household's collections",
			},
			[]string{"result"},
		),
		loadLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_load_duration_seconds",
				Help:      "Latency of full refetches",
				Buckets:   prometheus.DefBuckets,
			},
		),
		activeStores: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_stores",
				Help:      "Finance stores currently held in memory",
			},
		),
	}
}

// Register registers all collectors with the given registerer.
func (pc *PrometheusCollector) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		pc.mutations,
		pc.persistence,
		pc.persistLat,
		pc.circuitState,
		pc.circuitOpens,
		pc.loads,
		pc.loadLatency,
		pc.activeStores,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (pc *PrometheusCollector) RecordMutation(entity, op string, outcome metrics.Outcome) {
	pc.mutations.WithLabelValues(entity, op, string(outcome)).Inc()
}

func (pc *PrometheusCollector) RecordPersistence(entity, op string, success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "error"
	}
	pc.persistence.WithLabelValues(entity, op, result).Inc()
	pc.persistLat.WithLabelValues(entity, op).Observe(duration.Seconds())
}

func (pc *PrometheusCollector) RecordCircuitState(table string, state metrics.CircuitState) {
	pc.circuitState.WithLabelValues(table).Set(float64(state))
	if state == metrics.CircuitOpen {
		pc.circuitOpens.WithLabelValues(table).Inc()
	}
}

func (pc *PrometheusCollector) RecordLoad(success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "error"
	}
	pc.loads.WithLabelValues(result).Inc()
	pc.loadLatency.Observe(duration.Seconds())
}

func (pc *PrometheusCollector) SetActiveStores(n int) {
	pc.activeStores.Set(float64(n))
}

var _ metrics.Collector = (*PrometheusCollector)(nil)
