// Package telemetry wires the OpenTelemetry meter to a Prometheus
// exporter and records per route HTTP metrics.
package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

// NewExporter returns a pull exporter with its own registry. The exporter
// is an http.Handler serving the Prometheus text format.
func NewExporter() (*prometheus.Exporter, error) {
	config := prometheus.Config{
		DefaultHistogramBoundaries: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)

	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, fmt.Errorf("telemetry: prometheus exporter: %w", err)
	}

	return exporter, nil
}

// Metrics records request counts and latencies.
type Metrics struct {
	requests metric.Int64Counter
	duration metric.Float64ValueRecorder
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requests, err := meter.NewInt64Counter(
		"http_server_requests",
		metric.WithDescription("Count of completed requests, by HTTP method, route and response status"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: requests counter: %w", err)
	}

	duration, err := meter.NewFloat64ValueRecorder(
		"http_server_duration_ms",
		metric.WithDescription("Request latency in milliseconds, by HTTP method and route"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: duration recorder: %w", err)
	}

	return &Metrics{requests: requests, duration: duration}, nil
}

// Handler records every request that passes through it. Mount it on the
// top level chi router so the matched route pattern is known afterwards.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		// raw paths would make the label set unbounded
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		labels := []attribute.KeyValue{
			attribute.String("method", r.Method),
			attribute.String("route", route),
		}
		elapsed := float64(time.Since(start)) / float64(time.Millisecond)
		m.duration.Record(r.Context(), elapsed, labels...)
		m.requests.Add(r.Context(), 1, append(labels, attribute.Int("status", status))...)
	})
}
