// Package tracing настраивает глобальный OpenTelemetry TracerProvider.
package tracing

import (
	"context"
	"fmt"

	"news_mcp/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc сбрасывает буферы экспортёра и останавливает провайдер.
type ShutdownFunc func(context.Context) error

// Init включает экспорт трейсов по OTLP/HTTP, если задан endpoint. Иначе глобальный
// провайдер остаётся no-op, а возвращаемый ShutdownFunc ничего не делает.
func Init(ctx context.Context, cfg config.TracingConfig, environment, version string) (ShutdownFunc, error) {
	if cfg.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			"",
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", version),
			attribute.String("deployment.environment", environment),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
