// Package observability owns the OpenTelemetry meter and tracer providers
// used to instrument the conversation-starters pipeline.
package observability

import (
	"context"
	"log"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	stageCounter   otelmetric.Int64Counter
	stageDuration  otelmetric.Float64Histogram
}

type options struct {
	registerer    prom.Registerer
	spanProcessor sdktrace.SpanProcessor
	global        bool
}

type Option func(*options)

// WithRegisterer sends exported metrics to reg instead of the default
// Prometheus registry.
func WithRegisterer(reg prom.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithSpanProcessor attaches sp to the tracer provider.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *options) { o.spanProcessor = sp }
}

// WithoutGlobal keeps the providers out of the otel globals.
func WithoutGlobal() Option {
	return func(o *options) { o.global = false }
}

func New(serviceName string, opts ...Option) *Observability {
	cfg := options{global: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	tp := newTracerProvider(cfg.spanProcessor)
	o := &Observability{
		tracerProvider: tp,
		tracer:         tp.Tracer(serviceName),
	}
	if cfg.global {
		otel.SetTracerProvider(tp)
	}

	var exporterOpts []prometheus.Option
	if cfg.registerer != nil {
		exporterOpts = append(exporterOpts, prometheus.WithRegisterer(cfg.registerer))
	}
	exporter, err := prometheus.New(exporterOpts...)
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	if cfg.global {
		otel.SetMeterProvider(provider)
	}

	meter := provider.Meter(serviceName)

	stageCounter, _ := meter.Int64Counter(
		"pipeline.stages",
		otelmetric.WithDescription("Number of pipeline stages run"),
	)

	stageDuration, _ := meter.Float64Histogram(
		"pipeline.stage.duration",
		otelmetric.WithDescription("Pipeline stage duration"),
		otelmetric.WithUnit("ms"),
	)

	o.meterProvider = provider
	o.meter = meter
	o.stageCounter = stageCounter
	o.stageDuration = stageDuration
	return o
}

// RecordStage counts one run of stage and its duration.
func (o *Observability) RecordStage(ctx context.Context, stage, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	)
	if o.stageCounter != nil {
		o.stageCounter.Add(ctx, 1, attrs)
	}
	if o.stageDuration != nil {
		o.stageDuration.Record(ctx, float64(duration)/float64(time.Millisecond), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
