package prometheus

import (
	"testing"
	"time"

	"family-finance/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollectorExportsStoreMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	pc := NewPrometheusCollector("family_finance")
	if err := pc.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	pc.RecordMutation("transaction", "insert", metrics.OutcomeApplied)
	pc.RecordMutation("transaction", "insert", metrics.OutcomeConfirmed)
	pc.RecordPersistence("transaction", "insert", false, 20*time.Millisecond)
	pc.RecordCircuitState("transactions", metrics.CircuitOpen)
	pc.RecordLoad(true, time.Second)
	pc.SetActiveStores(3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[string]int)
	for _, mf := range families {
		got[mf.GetName()] = len(mf.GetMetric())
	}

	want := map[string]int{
		"family_finance_store_mutations_total":             2,
		"family_finance_persistence_calls_total":           1,
		"family_finance_circuit_breaker_state":             1,
		"family_finance_circuit_breaker_opens_total":       1,
		"family_finance_store_loads_total":                 1,
		"family_finance_active_stores":                     1,
		"family_finance_persistence_call_duration_seconds": 1,
	}
	for name, n := range want {
		if got[name] != n {
			t.Errorf("%s: %d series, want %d", name, got[name], n)
		}
	}

	for _, mf := range families {
		if mf.GetName() == "family_finance_active_stores" {
			if v := mf.GetMetric()[0].GetGauge().GetValue(); v != 3 {
				t.Errorf("active stores = %v", v)
			}
		}
	}
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := NewPrometheusCollector("ff").Register(reg); err != nil {
		t.Fatal(err)
	}
	if err := NewPrometheusCollector("ff").Register(reg); err == nil {
		t.Error("duplicate registration accepted")
	}
}
