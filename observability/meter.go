package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	Insecure       bool
	Interval       time.Duration
}

// InitMeter creates an OTLP/HTTP meter provider with a periodic reader and
// installs it globally. Shut it down on exit.
func InitMeter(ctx context.Context, cfg MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names.
const (
	MetricProsodyJobs      = "voicelens.prosody.jobs"
	MetricPollAttempts     = "voicelens.prosody.poll_attempts"
	MetricAnalysisDuration = "voicelens.analysis.duration"
	MetricAnalysisDegraded = "voicelens.analysis.degraded"
)

// Metrics holds the service's instruments. A nil *Metrics records nothing.
type Metrics struct {
	prosodyJobs      metric.Int64Counter
	pollAttempts     metric.Int64Histogram
	analysisDuration metric.Float64Histogram
	analysisDegraded metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	jobs, err := meter.Int64Counter(MetricProsodyJobs,
		metric.WithDescription("Prosody batch jobs by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricProsodyJobs, err)
	}

	attempts, err := meter.Int64Histogram(MetricPollAttempts,
		metric.WithDescription("Status checks needed per prosody job"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricPollAttempts, err)
	}

	duration, err := meter.Float64Histogram(MetricAnalysisDuration,
		metric.WithDescription("Duration of analysis requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricAnalysisDuration, err)
	}

	degraded, err := meter.Int64Counter(MetricAnalysisDegraded,
		metric.WithDescription("Analyses returned without emotion results"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricAnalysisDegraded, err)
	}

	return &Metrics{
		prosodyJobs:      jobs,
		pollAttempts:     attempts,
		analysisDuration: duration,
		analysisDegraded: degraded,
	}, nil
}

// RecordProsodyJob counts a finished job by outcome (completed, failed, timeout, error).
func (m *Metrics) RecordProsodyJob(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.prosodyJobs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordPollAttempts records how many status checks a job took.
func (m *Metrics) RecordPollAttempts(ctx context.Context, attempts int) {
	if m == nil {
		return
	}
	m.pollAttempts.Record(ctx, int64(attempts))
}

// RecordAnalysis records one analysis by operation and outcome.
func (m *Metrics) RecordAnalysis(ctx context.Context, operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.analysisDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

// RecordDegraded counts an analysis that completed without emotion results.
func (m *Metrics) RecordDegraded(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.analysisDegraded.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
