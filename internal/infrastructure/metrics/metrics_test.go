package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.TransactionsCreated == nil || m.HTTPRequests == nil || m.IdempotencyHits == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.AccountsCreated.Inc()
	m.TransactionsResolved.WithLabelValues("accepted").Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	if got := testutil.ToFloat64(m.AccountsCreated); got != 1 {
		t.Fatalf("expected accounts counter to be 1, got %v", got)
	}
}

func TestNewSeparateRegistries(t *testing.T) {
	// Two instances must not collide as long as they use separate
	// registries.
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())

	a.TransfersSent.Inc()

	if got := testutil.ToFloat64(b.TransfersSent); got != 0 {
		t.Fatalf("expected independent counters, got %v", got)
	}
}
