// Package telemetry wires OpenTelemetry OTLP gRPC export for stage-level
// tracing of discovery runs.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Config configures the OTLP gRPC exporter.
type Config struct {
	// Endpoint is the OTLP gRPC endpoint (e.g., "localhost:4317").
	Endpoint string

	// ServiceName identifies this service in traces.
	ServiceName string

	// ServiceVersion is the version reported with spans.
	ServiceVersion string

	// InsecureTLS disables TLS for the gRPC connection.
	InsecureTLS bool

	// BatchTimeout is how long to wait before sending a span batch.
	BatchTimeout time.Duration
}

// DefaultConfig returns local-development defaults.
func DefaultConfig(serviceName string) Config {
	return Config{
		Endpoint:     "localhost:4317",
		ServiceName:  serviceName,
		InsecureTLS:  true,
		BatchTimeout: 5 * time.Second,
	}
}

// Exporter manages the tracer provider lifecycle. When initialized it
// installs itself as the global provider, so package tracers (including
// the discovery pipeline's) start emitting real spans.
type Exporter struct {
	mu          sync.Mutex
	cfg         Config
	provider    *sdktrace.TracerProvider
	initialized bool
}

// NewExporter creates an exporter; Init establishes the connection.
func NewExporter(cfg Config) *Exporter {
	return &Exporter{cfg: cfg}
}

// Init connects to the OTLP endpoint and installs the global provider.
func (e *Exporter) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return nil
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(e.cfg.Endpoint),
	}
	if e.cfg.InsecureTLS {
		opts = append(opts,
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
			otlptracegrpc.WithInsecure(),
		)
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("telemetry: create exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(e.cfg.ServiceName),
			semconv.ServiceVersion(e.cfg.ServiceVersion),
		),
	)
	if err != nil {
		return fmt.Errorf("telemetry: build resource: %w", err)
	}

	e.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(e.cfg.BatchTimeout)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(e.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	e.initialized = true
	return nil
}

// Tracer returns a tracer from the installed provider.
func (e *Exporter) Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// Shutdown flushes pending spans and releases the provider.
func (e *Exporter) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return nil
	}
	e.initialized = false
	return e.provider.Shutdown(ctx)
}
