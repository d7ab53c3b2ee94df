// Package metrics wires the OpenTelemetry meter provider the scanner
// publishes counters and histograms through, with a Prometheus scrape
// endpoint for local runs and an optional OTLP push for collectors.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
)

type MetricProvider interface {
	Meter(name string, options ...metric.MeterOption) metric.Meter
	Shutdown(ctx context.Context) error
}

// NewMetricProvider builds an SDK meter provider from the configured
// exporters and installs it as the global provider. It panics on
// exporter construction failure since nothing downstream can run
// without a meter.
func NewMetricProvider(options ...OptionFn) MetricProvider {
	ctx := context.Background()

	var cfg Config
	for _, opt := range options {
		cfg = opt(cfg)
	}

	opts := []sdkmetric.Option{
		sdkmetric.WithResource(resource.NewSchemaless(
			semconv.ServiceNameKey.String(cfg.serviceName()),
		)),
	}
	for _, reader := range buildReaders(ctx, cfg) {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	provider := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(provider)

	return provider
}

func buildReaders(ctx context.Context, cfg Config) []sdkmetric.Reader {
	var readers []sdkmetric.Reader

	for _, provider := range cfg.Provider {
		switch provider.Provider {
		case PrometheusProvider:
			exporter, err := prometheus.New()
			if err != nil {
				panic(err)
			}
			readers = append(readers, exporter)
		case OtelCollector:
			readers = append(readers, sdkmetric.NewPeriodicReader(newOTLPExporter(ctx, provider)))
		}
	}

	// Default to an OTLP push configured purely from OTEL_* env vars.
	if len(readers) == 0 {
		exporter, err := otlpmetricgrpc.New(ctx)
		if err != nil {
			panic(err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter))
	}

	return readers
}

func newOTLPExporter(ctx context.Context, provider ProviderCfg) sdkmetric.Exporter {
	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpointURL(provider.Endpoint),
		otlpmetricgrpc.WithHeaders(provider.Headers),
	}
	if provider.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		panic(err)
	}
	return exporter
}

func (c Config) serviceName() string {
	if c.ServiceName != "" {
		return c.ServiceName
	}
	return os.Getenv("OTEL_SERVICE_NAME")
}

// ServePrometheusMetrics blocks serving /metrics for the Prometheus
// reader. Run it in its own goroutine.
func ServePrometheusMetrics(opt ...PromOptionFn) {
	cfg := PromServerConfig{port: "2223"}
	for _, o := range opt {
		cfg = o(cfg)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		fmt.Printf("metrics server stopped: %v\n", err)
	}
}
