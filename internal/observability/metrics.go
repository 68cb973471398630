package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/schoolsuite/institute-admin-api/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/exemplar"
	"go.opentelemetry.io/otel/sdk/resource"
)

type AppMetrics struct {
	authLoginCounter         metric.Int64Counter
	resourceOpDuration       metric.Float64Histogram
	repositoryOpCounter      metric.Int64Counter
	listCacheCounter         metric.Int64Counter
	permissionCacheCounter   metric.Int64Counter
	intentCounter            metric.Int64Counter
	staffListReqDuration     metric.Float64Histogram
	staffListPageSize        metric.Float64Histogram
	middlewareCounter        metric.Int64Counter
	healthCheckResultCounter metric.Int64Counter
	healthCheckDuration      metric.Float64Histogram
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
		sdkmetric.WithExemplarFilter(exemplar.TraceBasedFilter),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "resource.operation.duration"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
				},
			},
		)),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter("institute-admin-api")
	m := &AppMetrics{}
	if m.authLoginCounter, err = meter.Int64Counter("auth.login.attempts"); err != nil {
		return nil, err
	}
	if m.resourceOpDuration, err = meter.Float64Histogram("resource.operation.duration", metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.repositoryOpCounter, err = meter.Int64Counter("repository.operations"); err != nil {
		return nil, err
	}
	if m.listCacheCounter, err = meter.Int64Counter("list.cache.events"); err != nil {
		return nil, err
	}
	if m.permissionCacheCounter, err = meter.Int64Counter("rbac.permission.cache.events"); err != nil {
		return nil, err
	}
	if m.intentCounter, err = meter.Int64Counter("intent.events"); err != nil {
		return nil, err
	}
	if m.staffListReqDuration, err = meter.Float64Histogram("staff.list.request.duration", metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.staffListPageSize, err = meter.Float64Histogram("staff.list.page.size"); err != nil {
		return nil, err
	}
	if m.middlewareCounter, err = meter.Int64Counter("http.middleware.validation"); err != nil {
		return nil, err
	}
	if m.healthCheckResultCounter, err = meter.Int64Counter("health.check.results"); err != nil {
		return nil, err
	}
	if m.healthCheckDuration, err = meter.Float64Histogram("health.check.duration", metric.WithUnit("s")); err != nil {
		return nil, err
	}

	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

func current() *AppMetrics {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	return m
}

func RecordAuthLogin(ctx context.Context, status string) {
	m := current()
	if m == nil {
		return
	}
	m.authLoginCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}

func RecordResourceOperation(ctx context.Context, resource, op, outcome string, duration time.Duration) {
	m := current()
	if m == nil {
		return
	}
	m.resourceOpDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}

func RecordRepositoryOperation(ctx context.Context, entity, op, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.repositoryOpCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}

func RecordListCacheEvent(ctx context.Context, resource, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.listCacheCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.String("outcome", outcome),
	))
}

func RecordPermissionCacheEvent(ctx context.Context, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.permissionCacheCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func RecordIntentEvent(ctx context.Context, resource string, action, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.intentCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

func RecordStaffListRequestDuration(ctx context.Context, status string, duration time.Duration) {
	m := current()
	if m == nil {
		return
	}
	m.staffListReqDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("status", status),
	))
}

func RecordStaffListPageSize(ctx context.Context, pageSize int) {
	m := current()
	if m == nil {
		return
	}
	m.staffListPageSize.Record(ctx, float64(pageSize))
}

func RecordMiddlewareValidationEvent(ctx context.Context, check, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.middlewareCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("check", check),
		attribute.String("outcome", outcome),
	))
}

func RecordHealthCheckResult(ctx context.Context, check, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.healthCheckResultCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("check", check),
		attribute.String("outcome", outcome),
	))
}

func RecordHealthCheckDuration(ctx context.Context, check string, duration time.Duration) {
	m := current()
	if m == nil {
		return
	}
	m.healthCheckDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("check", check),
	))
}
