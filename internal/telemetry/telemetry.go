// Package telemetry configures OpenTelemetry tracing.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.uber.org/zap"

	"github.com/ppiankov/essayfb/internal/model"
)

// ServiceName identifies essayfb spans
const ServiceName = "essayfb"

// Shutdown flushes and stops the tracer provider
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Setup installs a global tracer provider when telemetry is enabled. When it
// is disabled the global no-op provider stays in place and the returned
// Shutdown does nothing.
func Setup(ctx context.Context, cfg model.TelemetryConfig, version string, logger *zap.Logger) (Shutdown, error) {
	if !cfg.Enabled {
		return noop, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String(ServiceName),
		semconv.ServiceVersionKey.String(version),
		attribute.String("service.component", "feedback"),
	))
	if err != nil {
		logger.Warn("otel resource init failed (continuing)", zap.Error(err))
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return noop, fmt.Errorf("trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(clampRatio(cfg.SampleRatio)))),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("otel tracing initialized",
		zap.String("exporter", cfg.Exporter),
		zap.String("endpoint", cfg.Endpoint),
		zap.Float64("sample_ratio", clampRatio(cfg.SampleRatio)))
	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, cfg model.TelemetryConfig) (sdktrace.SpanExporter, error) {
	switch strings.ToLower(cfg.Exporter) {
	case "otlp":
		var opts []otlptracehttp.Option
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	case "", "stdout":
		// stdout carries command output; spans go to stderr
		return stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unknown exporter %q", cfg.Exporter)
	}
}

func clampRatio(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
