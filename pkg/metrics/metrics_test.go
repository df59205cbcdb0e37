package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewManagerDefaults(t *testing.T) {
	m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))
	if m == nil {
		t.Fatal("manager is nil")
	}
	if m.namespace != "mimic" {
		t.Errorf("namespace = %q, want mimic", m.namespace)
	}
	if m.subsystem != "api" {
		t.Errorf("subsystem = %q, want api", m.subsystem)
	}
}

func TestManagerOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(
		WithNamespace("test"),
		WithSubsystem("unit"),
		WithHistogramBuckets([]float64{1, 10, 100}),
		WithMetricsEnabled(false),
		WithCustomLabels(map[string]string{"env": "test"}),
		WithMetricPrefix("p_"),
		WithPrometheusRegistry(reg),
	)
	if m.namespace != "test" || m.subsystem != "unit" {
		t.Errorf("options not applied: namespace=%q subsystem=%q", m.namespace, m.subsystem)
	}
	if m.enabled {
		t.Error("expected metrics disabled")
	}
	if len(m.histogramBuckets) != 3 {
		t.Errorf("buckets = %v", m.histogramBuckets)
	}
}

// Package-level helpers must be safe to call in any order.
func TestPackageHelpers(t *testing.T) {
	RecordHTTPRequest("items", "POST", "200")
	RecordHTTPRequestDuration("items", "POST", "200", 1.2)
	RecordItemCreated()
	RecordItemUpdated()
	RecordItemFetched()
	RecordValidationFailure("items")
	RecordReplayDetected()
	UpdateJournalSize(10)
	UpdateJournalCapacity(100)
	RecordJournalDrop()
	UpdateQueueCapacity(100)
	UpdateQueueSize(5)
	UpdateQueueUtilization(0.05)
	RecordQueueEnqueue()
	RecordQueueDequeue()
	RecordQueueEnqueueError()
	UpdateWorkerActiveCount(4)
	RecordWorkerProcessingLatency(0.5)
	RecordWorkerError()
	RecordErrorByEndpoint("items", "POST", "client_error")
	RecordErrorByType("client_error", "medium")
	UpdateSystemMemoryUsage(1 << 20)
	UpdateSystemGoroutineCount(12)
	RecordSystemGCPauseTime(0.1)

	if GetRegistry() == nil {
		t.Fatal("registry is nil")
	}
	families, err := GetRegistry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected at least one metric family")
	}
}
