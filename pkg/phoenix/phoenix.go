// Package phoenix wires OpenTelemetry tracing to an Arize Phoenix
// collector. Instrumentation is strictly best-effort: a missing key or
// unreachable collector never stops a run.
package phoenix

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"guidecraft/pkg/colors"
	"guidecraft/pkg/settings"
)

// TracerName identifies spans emitted by this program.
const TracerName = "guidecraft"

// ShutdownFunc flushes and stops the trace provider. Always safe to
// call, also when setup was skipped.
type ShutdownFunc func(ctx context.Context)

// Setup configures the global tracer provider to export to Phoenix.
// Returns ok=false (with a no-op shutdown) when the API key is unset or
// the exporter cannot be constructed; the pipeline proceeds either way.
func Setup(ctx context.Context, cfg settings.PhoenixSettings, out io.Writer) (ShutdownFunc, bool) {
	noop := func(context.Context) {}

	if cfg.APIKey == "" {
		fmt.Fprintf(out, "%s%s Phoenix API key not set, tracing disabled%s\n",
			colors.Yellow, colors.IconSkipped, colors.Reset)
		return noop, false
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.CollectorEndpoint),
		otlptracehttp.WithHeaders(map[string]string{"api_key": cfg.APIKey}),
	)
	if err != nil {
		fmt.Fprintf(out, "%s%s Phoenix exporter setup failed, tracing disabled: %v%s\n",
			colors.Yellow, colors.IconSkipped, err, colors.Reset)
		return noop, false
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ProjectName),
	))
	if err != nil {
		res = resource.Default()
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	fmt.Fprintf(out, "%s%s Phoenix tracing enabled (project %s)%s\n",
		colors.Green, colors.IconSuccess, cfg.ProjectName, colors.Reset)

	shutdown := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}
	return shutdown, true
}

// Tracer returns the program tracer from the global provider. Without
// Setup this yields no-op spans.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
