// Package tracing integrates OpenTelemetry with the engine so that every
// produced and consumed task can be observed as a span. Applications that
// never call Init get no-op spans.
package tracing
