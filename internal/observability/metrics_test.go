package observability

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/schoolsuite/institute-admin-api/internal/config"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordMetricHelpersNoPanicWhenUninitialized(t *testing.T) {
	ctx := context.Background()
	metricsMu.Lock()
	appMetrics = nil
	metricsMu.Unlock()

	// Smoke-call every helper with appMetrics=nil; they should all no-op safely.
	RecordAuthLogin(ctx, "success")
	RecordResourceOperation(ctx, "feehead", "create", "success", 10*time.Millisecond)
	RecordRepositoryOperation(ctx, "feehead", "list", "success")
	RecordListCacheEvent(ctx, "feehead", "hit")
	RecordPermissionCacheEvent(ctx, "miss")
	RecordIntentEvent(ctx, "fund", "create", "raised")
	RecordStaffListRequestDuration(ctx, "success", 20*time.Millisecond)
	RecordStaffListPageSize(ctx, 25)
	RecordMiddlewareValidationEvent(ctx, "rbac", "allow")
	RecordHealthCheckResult(ctx, "db", "healthy")
	RecordHealthCheckDuration(ctx, "db", 5*time.Millisecond)
}

func TestRecordMetricHelpersEmitExpectedLabelCardinality(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(ctx) }()

	m := newTestAppMetrics(t, provider)
	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()
	defer func() {
		metricsMu.Lock()
		appMetrics = nil
		metricsMu.Unlock()
	}()

	RecordAuthLogin(ctx, "success")
	RecordResourceOperation(ctx, "feehead", "create", "success", 10*time.Millisecond)
	RecordRepositoryOperation(ctx, "feehead", "list", "success")
	RecordListCacheEvent(ctx, "feehead", "hit")
	RecordPermissionCacheEvent(ctx, "miss")
	RecordIntentEvent(ctx, "fund", "create", "raised")
	RecordStaffListRequestDuration(ctx, "success", 20*time.Millisecond)
	RecordStaffListPageSize(ctx, 25)
	RecordMiddlewareValidationEvent(ctx, "rbac", "allow")
	RecordHealthCheckResult(ctx, "db", "healthy")
	RecordHealthCheckDuration(ctx, "db", 5*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}

	expected := map[string]int{
		"auth.login.attempts":          1,
		"resource.operation.duration":  3,
		"repository.operations":        3,
		"list.cache.events":            2,
		"rbac.permission.cache.events": 1,
		"intent.events":                3,
		"staff.list.request.duration":  1,
		"staff.list.page.size":         0,
		"http.middleware.validation":   2,
		"health.check.results":         2,
		"health.check.duration":        1,
	}

	observed := collectLabelCardinality(t, rm)
	for metricName, want := range expected {
		got, ok := observed[metricName]
		if !ok {
			t.Fatalf("missing metric datapoint for %s", metricName)
		}
		if got != want {
			t.Fatalf("metric %s label cardinality mismatch: got=%d want=%d", metricName, got, want)
		}
	}
}

func TestInitMetricsDisabledReturnsProvider(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{OTELMetricsEnabled: false}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mp, err := InitMetrics(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("init metrics disabled: %v", err)
	}
	if mp == nil {
		t.Fatal("expected non-nil meter provider")
	}
	_ = mp.Shutdown(ctx)
}

func newTestAppMetrics(t *testing.T, provider *sdkmetric.MeterProvider) *AppMetrics {
	t.Helper()
	meter := provider.Meter("observability-test")

	counter := func(name string) metric.Int64Counter {
		t.Helper()
		c, err := meter.Int64Counter(name)
		if err != nil {
			t.Fatalf("create counter %s: %v", name, err)
		}
		return c
	}
	hist := func(name string) metric.Float64Histogram {
		t.Helper()
		h, err := meter.Float64Histogram(name)
		if err != nil {
			t.Fatalf("create histogram %s: %v", name, err)
		}
		return h
	}

	return &AppMetrics{
		authLoginCounter:         counter("auth.login.attempts"),
		resourceOpDuration:       hist("resource.operation.duration"),
		repositoryOpCounter:      counter("repository.operations"),
		listCacheCounter:         counter("list.cache.events"),
		permissionCacheCounter:   counter("rbac.permission.cache.events"),
		intentCounter:            counter("intent.events"),
		staffListReqDuration:     hist("staff.list.request.duration"),
		staffListPageSize:        hist("staff.list.page.size"),
		middlewareCounter:        counter("http.middleware.validation"),
		healthCheckResultCounter: counter("health.check.results"),
		healthCheckDuration:      hist("health.check.duration"),
	}
}

func collectLabelCardinality(t *testing.T, rm metricdata.ResourceMetrics) map[string]int {
	t.Helper()
	out := map[string]int{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				if len(data.DataPoints) > 0 {
					out[m.Name] = data.DataPoints[0].Attributes.Len()
				}
			case metricdata.Sum[float64]:
				if len(data.DataPoints) > 0 {
					out[m.Name] = data.DataPoints[0].Attributes.Len()
				}
			case metricdata.Histogram[int64]:
				if len(data.DataPoints) > 0 {
					out[m.Name] = data.DataPoints[0].Attributes.Len()
				}
			case metricdata.Histogram[float64]:
				if len(data.DataPoints) > 0 {
					out[m.Name] = data.DataPoints[0].Attributes.Len()
				}
			}
		}
	}
	return out
}
