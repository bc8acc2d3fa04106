// Package metrics wires an OpenTelemetry meter provider to a Prometheus
// scrape handler and bundles the request-level instruments used by the
// gateway.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Setup builds a meter provider backed by a dedicated Prometheus registry
// and returns the scrape handler for it.
func Setup(service string) (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, err
	}
	res := resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceNameKey.String(service))
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return provider, handler, nil
}

// Recorder holds the gateway's request instruments.
type Recorder struct {
	requests metric.Int64Counter
	errors   metric.Int64Counter
	inflight metric.Int64UpDownCounter
	duration metric.Float64Histogram
}

func NewRecorder(provider *sdkmetric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter("gateway")

	requests, err := meter.Int64Counter(
		"gateway_requests_total",
		metric.WithDescription("Total purchase requests seen"),
	)
	if err != nil {
		return nil, err
	}
	errors, err := meter.Int64Counter(
		"gateway_errors_total",
		metric.WithDescription("Total failed purchase requests"),
	)
	if err != nil {
		return nil, err
	}
	inflight, err := meter.Int64UpDownCounter(
		"gateway_inflight_requests",
		metric.WithDescription("Purchase orchestrations currently in flight"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(
		"gateway_request_duration_seconds",
		metric.WithDescription("Purchase duration for completed requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Recorder{
		requests: requests,
		errors:   errors,
		inflight: inflight,
		duration: duration,
	}, nil
}

func (r *Recorder) Request(ctx context.Context) {
	if r == nil {
		return
	}
	r.requests.Add(ctx, 1)
}

func (r *Recorder) Error(ctx context.Context) {
	if r == nil {
		return
	}
	r.errors.Add(ctx, 1)
}

func (r *Recorder) InflightAdd(ctx context.Context, delta int64) {
	if r == nil {
		return
	}
	r.inflight.Add(ctx, delta)
}

func (r *Recorder) Duration(ctx context.Context, d time.Duration) {
	if r == nil {
		return
	}
	r.duration.Record(ctx, d.Seconds())
}
