// Package observability wires OpenTelemetry tracing and metrics.
//
// When disabled, Setup leaves the global no-op providers in place, so spans
// and instruments created through this package cost nothing:
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability, "voicelens", version.Version)
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "analysis.run")
//	defer span.End()
//
//	metrics, _ := observability.NewMetrics(observability.Meter(observability.InstrumentationName))
//	metrics.RecordProsodyJob(ctx, "completed")
package observability
