package metrics

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	AuthRequestsTotal   metric.Int64Counter
	PlanRequestsTotal   metric.Int64Counter
	AskRequestsTotal    metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("touristique")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.AuthRequestsTotal, err = meter.Int64Counter(
			"auth_requests_total",
			metric.WithDescription("Total number of sign-in and sign-out requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_requests_total: %v", err)
		}

		m.PlanRequestsTotal, err = meter.Int64Counter(
			"plan_requests_total",
			metric.WithDescription("Total number of planning API plan requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create plan_requests_total: %v", err)
		}

		m.AskRequestsTotal, err = meter.Int64Counter(
			"ask_requests_total",
			metric.WithDescription("Total number of planning API chat requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ask_requests_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global metrics instance, initializing it on first use.
func Get() *AppMetrics {
	if appMetrics == nil {
		InitAppMetrics()
	}
	return appMetrics
}

func statusAttr(ok bool) metric.MeasurementOption {
	status := "ok"
	if !ok {
		status = "error"
	}
	return metric.WithAttributes(attribute.String("status", status))
}

// RecordPlanRequest counts one /plan call.
func (m *AppMetrics) RecordPlanRequest(ctx context.Context, ok bool) {
	m.PlanRequestsTotal.Add(ctx, 1, statusAttr(ok))
}

// RecordAskRequest counts one /ask call.
func (m *AppMetrics) RecordAskRequest(ctx context.Context, ok bool) {
	m.AskRequestsTotal.Add(ctx, 1, statusAttr(ok))
}

// RecordAuthRequest counts one sign-in/sign-out action.
func (m *AppMetrics) RecordAuthRequest(ctx context.Context, action string) {
	m.AuthRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}
