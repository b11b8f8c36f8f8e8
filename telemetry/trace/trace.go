// Package trace provides distributed tracing for the voyager engine.
// It integrates with OpenTelemetry; by default a noop tracer is installed
// so instrumentation has no cost unless Start is called.
package trace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/voyagerlab/voyager"

// TracerProvider is the global tracer provider for telemetry.
var TracerProvider trace.TracerProvider = noop.NewTracerProvider()

// Tracer is the global tracer instance for telemetry.
var Tracer trace.Tracer = TracerProvider.Tracer(instrumentationName)

// Option configures tracing startup.
type Option func(*options)

type options struct {
	serviceName string
	exporter    sdktrace.SpanExporter
}

// WithServiceName sets the reported service name.
func WithServiceName(name string) Option {
	return func(o *options) {
		o.serviceName = name
	}
}

// WithExporter sets the span exporter. When nil, spans are recorded but
// not exported, which is still useful for in-process span processors.
func WithExporter(exporter sdktrace.SpanExporter) Option {
	return func(o *options) {
		o.exporter = exporter
	}
}

// Start installs a real tracer provider. The returned clean function
// flushes and shuts the provider down.
func Start(ctx context.Context, opts ...Option) (clean func() error, err error) {
	o := &options{serviceName: "voyager"}
	for _, opt := range opts {
		opt(o)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(o.serviceName)),
	)
	if err != nil {
		return nil, err
	}

	providerOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if o.exporter != nil {
		providerOpts = append(providerOpts, sdktrace.WithBatcher(o.exporter))
	}
	provider := sdktrace.NewTracerProvider(providerOpts...)

	TracerProvider = provider
	Tracer = provider.Tracer(instrumentationName)
	otel.SetTracerProvider(provider)

	return func() error {
		shutdownCtx := context.Background()
		if err := provider.ForceFlush(shutdownCtx); err != nil {
			return err
		}
		return provider.Shutdown(shutdownCtx)
	}, nil
}
