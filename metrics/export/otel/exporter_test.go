package otel

import (
	"context"
	"sync"
	"testing"

	gatekit "github.com/gatekit/gatekit"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot gatekit.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() gatekit.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := gatekit.MetricsSnapshot{
		Counters:   make(map[gatekit.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms: make(map[gatekit.MetricID][]uint64, len(f.snapshot.Histograms)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		next := make([]uint64, len(buckets))
		copy(next, buckets)
		out.Histograms[k] = next
	}
	return out
}

func (f *fakeSource) AuditDropped() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dropped
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("gatekit-test")

	src := &fakeSource{
		snapshot: gatekit.MetricsSnapshot{
			Counters: map[gatekit.MetricID]uint64{
				gatekit.MetricLoginSuccess: 3,
			},
			Histograms: map[gatekit.MetricID][]uint64{
				gatekit.MetricVerifyLatency: {1, 1, 1, 1, 1, 1, 1, 1},
			},
		},
		dropped: 1,
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(rm.ScopeMetrics) == 0 {
		t.Fatal("expected collected metrics, got none")
	}

	found := false
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == "gatekit_login_success_total" {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected gatekit_login_success_total in collected metrics")
	}
}

func TestExporterRejectsNilMeter(t *testing.T) {
	if _, err := NewOTelExporterFromSource(nil, &fakeSource{}); err == nil {
		t.Fatal("expected error for nil meter")
	}
}

func TestExporterRejectsNilSource(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("gatekit-test")

	if _, err := NewOTelExporterFromSource(meter, nil); err == nil {
		t.Fatal("expected error for nil source")
	}
}

func TestExporterConcurrentCollectNoPanic(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("gatekit-test")

	src := &fakeSource{
		snapshot: gatekit.MetricsSnapshot{
			Counters:   map[gatekit.MetricID]uint64{gatekit.MetricLogout: 1},
			Histograms: map[gatekit.MetricID][]uint64{},
		},
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() { _ = exp.Close() }()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}()
	}
	wg.Wait()
}

func TestExporterCloseIsIdempotent(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("gatekit-test")

	exp, err := NewOTelExporterFromSource(meter, &fakeSource{})
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}

	if err := exp.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := exp.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}
