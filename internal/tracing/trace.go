// Package tracing wires an OpenTelemetry tracer provider, with an
// optional Jaeger exporter, and provides the span-per-stage helper used
// by the compilation orchestrator.
package tracing

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

// Options configures tracer-provider construction.
type Options struct {
	EnableJaeger   bool
	JaegerEndpoint string
}

func newJaegerExporter(endpoint string) (tracesdk.SpanExporter, error) {
	exp, err := jaeger.New(
		jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)),
	)
	if err != nil {
		return nil, err
	}
	return exp, nil
}

// InitTracerProvider builds and installs the global tracer provider.
// When opts.EnableJaeger is false the provider still samples every
// span (useful for in-process assertions and future exporters) but
// never ships them anywhere.
func InitTracerProvider(log logr.Logger, opts Options) (*tracesdk.TracerProvider, error) {
	tpOpts := []tracesdk.TracerProviderOption{
		tracesdk.WithSampler(tracesdk.AlwaysSample()),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("kargo-core"),
		)),
	}

	if opts.EnableJaeger {
		endpoint := opts.JaegerEndpoint
		if endpoint == "" {
			endpoint = "http://localhost:14268/api/traces"
		}
		exp, err := newJaegerExporter(endpoint)
		if err != nil {
			log.Error(err, "failed to create jaeger exporter")
			return nil, err
		}
		tpOpts = append(tpOpts, tracesdk.WithBatcher(exp))
	}

	tp := tracesdk.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)
	return tp, nil
}

// Shutdown drains and closes the tracer provider with a bounded
// timeout.
func Shutdown(ctx context.Context, log logr.Logger, tp *tracesdk.TracerProvider) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	if err := tp.Shutdown(ctx); err != nil {
		log.Error(err, "error shutting down tracer provider")
	}
}

// StartNewSpan starts a span named name as a child of ctx.
func StartNewSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := otel.Tracer("").Start(ctx, name)
	span.SetAttributes(attrs...)
	return ctx, span
}
