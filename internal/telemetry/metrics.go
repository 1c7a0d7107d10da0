package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeterProvider installs a Prometheus-backed global MeterProvider. It
// returns the handler for the /metrics endpoint and a shutdown function.
func InitMeterProvider(serviceName, serviceVersion string) (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(newResource(serviceName, serviceVersion)),
	)

	otel.SetMeterProvider(mp)

	return promhttp.Handler(), mp.Shutdown, nil
}

// OrderMetrics counts order lifecycle operations. The counters go through
// the global meter provider, so they are no-ops until InitMeterProvider has
// run.
type OrderMetrics struct {
	created  metric.Int64Counter
	canceled metric.Int64Counter
	repeated metric.Int64Counter
}

func NewOrderMetrics() (*OrderMetrics, error) {
	meter := otel.Meter("orders")

	created, err := meter.Int64Counter("orders_created_total",
		metric.WithDescription("Number of orders created"))
	if err != nil {
		return nil, err
	}

	canceled, err := meter.Int64Counter("orders_canceled_total",
		metric.WithDescription("Number of orders canceled"))
	if err != nil {
		return nil, err
	}

	repeated, err := meter.Int64Counter("orders_repeated_total",
		metric.WithDescription("Number of orders cloned by the repeat operation"))
	if err != nil {
		return nil, err
	}

	return &OrderMetrics{created: created, canceled: canceled, repeated: repeated}, nil
}

func (m *OrderMetrics) OrderCreated(ctx context.Context) {
	m.created.Add(ctx, 1)
}

func (m *OrderMetrics) OrderCanceled(ctx context.Context) {
	m.canceled.Add(ctx, 1)
}

func (m *OrderMetrics) OrderRepeated(ctx context.Context) {
	m.repeated.Add(ctx, 1)
}
