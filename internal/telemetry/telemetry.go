package telemetry

import (
	"context"
	"errors"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const DefaultServiceName = "linkodin"

// Telemetry bundles the tracer and the OpenTelemetry instruments used by the
// generation pipeline.
type Telemetry struct {
	Tracer trace.Tracer
	Meter  metric.Meter

	PostsGenerated metric.Int64Counter
	StageLatency   metric.Float64Histogram

	shutdown func(context.Context) error
}

// InitTelemetry initializes OpenTelemetry tracing and metrics. With an empty
// endpoint no exporter is started and the global no-op providers are used.
func InitTelemetry(ctx context.Context, serviceName, otelEndpoint string) (*Telemetry, error) {
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	t := &Telemetry{shutdown: func(context.Context) error { return nil }}

	if otelEndpoint != "" {
		res, err := resource.New(ctx,
			resource.WithAttributes(
				semconv.ServiceName(serviceName),
				attribute.String("component", "cli"),
			),
		)
		if err != nil {
			return nil, err
		}

		traceExporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(otelEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, err
		}

		traceProvider := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)

		metricExporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(otelEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			_ = traceProvider.Shutdown(ctx)
			return nil, err
		}

		meterProvider := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
				sdkmetric.WithInterval(15*time.Second),
			)),
			sdkmetric.WithResource(res),
		)

		otel.SetTracerProvider(traceProvider)
		otel.SetMeterProvider(meterProvider)
		otel.SetTextMapPropagator(propagation.TraceContext{})

		t.shutdown = func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return errors.Join(
				traceProvider.Shutdown(shutdownCtx),
				meterProvider.Shutdown(shutdownCtx),
			)
		}
		log.Printf("[Telemetry] Initialized with endpoint %s", otelEndpoint)
	} else {
		log.Printf("[Telemetry] Debug: no OTLP endpoint configured, tracing disabled")
	}

	t.Tracer = otel.Tracer(serviceName)
	t.Meter = otel.Meter(serviceName)
	if err := t.initMetrics(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Telemetry) initMetrics() error {
	var err error

	t.PostsGenerated, err = t.Meter.Int64Counter(
		"linkodin.posts.generated",
		metric.WithDescription("Number of posts generated and stored"),
	)
	if err != nil {
		return err
	}

	t.StageLatency, err = t.Meter.Float64Histogram(
		"linkodin.generation.stage.latency",
		metric.WithDescription("Generation stage latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	return err
}

// Shutdown flushes pending spans and metrics.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.shutdown(ctx)
}

// RecordStage records a generation stage latency on the OpenTelemetry meter.
func (t *Telemetry) RecordStage(stage string, duration time.Duration, err error) {
	t.StageLatency.Record(context.Background(), float64(duration.Milliseconds()),
		metric.WithAttributes(attribute.String("stage", stage), attribute.Bool("success", err == nil)))
}

// RecordPostGenerated counts a stored post.
func (t *Telemetry) RecordPostGenerated(personaID string) {
	t.PostsGenerated.Add(context.Background(), 1, metric.WithAttributes(attribute.String("persona.id", personaID)))
}
