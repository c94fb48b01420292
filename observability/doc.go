// Package observability wires OpenTelemetry tracing and metrics.
//
// Spans and instruments are always created against the global providers.
// Those are no-ops until the telemetry Component starts with export enabled,
// at which point it installs OTLP/HTTP exporting providers.
//
//	ctx, span := observability.StartSpan(ctx, "auth.authenticate")
//	defer span.End()
package observability
