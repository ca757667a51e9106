package custsession

import (
	"sync"
	"testing"
)

func TestMetricsDisabled(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricSessionCreated)
	if m.Enabled() {
		t.Fatal("metrics must report disabled")
	}
	if got := m.Value(MetricSessionCreated); got != 0 {
		t.Fatalf("disabled counter = %d", got)
	}
	if snap := m.Snapshot(); len(snap.Counters) != 0 {
		t.Fatalf("disabled snapshot has %d entries", len(snap.Counters))
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics

	m.Inc(MetricSessionCreated)
	if m.Enabled() {
		t.Fatal("nil metrics must report disabled")
	}
	if got := m.Value(MetricSessionCreated); got != 0 {
		t.Fatalf("nil counter = %d", got)
	}
}

func TestMetricsConcurrentIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const workers = 8
	const perWorker = 1000

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				m.Inc(MetricSessionRotated)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricSessionRotated); got != workers*perWorker {
		t.Fatalf("counter = %d, want %d", got, workers*perWorker)
	}

	snap := m.Snapshot()
	if snap.Counters[MetricSessionRotated] != workers*perWorker {
		t.Fatalf("snapshot = %d", snap.Counters[MetricSessionRotated])
	}
	if snap.Counters[MetricSessionCreated] != 0 {
		t.Fatal("untouched counter must be zero")
	}
}

func TestMetricsOutOfRangeID(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(metricIDCount + 5)
	if got := m.Value(metricIDCount + 5); got != 0 {
		t.Fatalf("out-of-range counter = %d", got)
	}
}
