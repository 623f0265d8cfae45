package otel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

type OtelController struct {
	traceProvider *sdktrace.TracerProvider
}

// MustInitOtel installs a Jaeger-backed tracer provider when otel.enabled is set.
// Otherwise the global noop provider stays in place and Shutdown does nothing.
func MustInitOtel() *OtelController {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !viper.GetBool("otel.enabled") {
		slog.Info("Tracing disabled")

		return &OtelController{}
	}

	endpoint := viper.GetString("otel.jaeger_endpoint")
	jaegerExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
	if err != nil {
		panic(fmt.Sprintf("Failed to create Jaeger exporter for %s: %v", endpoint, err))
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(jaegerExporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(viper.GetString("otel.service_name")),
		)),
	)

	otel.SetTracerProvider(tp)
	slog.Info("Tracing enabled", "endpoint", endpoint)

	return &OtelController{
		traceProvider: tp,
	}
}

func (o *OtelController) Shutdown(ctx context.Context) error {
	if o.traceProvider == nil {
		return nil
	}
	if err := o.traceProvider.Shutdown(ctx); err != nil {
		return err
	}

	return nil
}
