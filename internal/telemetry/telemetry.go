// Package telemetry holds the OpenTelemetry helpers used to trace races.
// Without a configured TracerProvider the global no-op provider is used, so
// tracing costs nothing unless a host process installs an SDK.
package telemetry

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies racecoord spans.
const InstrumentationName = "github.com/agbru/racecoord"

// Attribute keys attached to race spans.
const (
	KeyRaceID    = attribute.Key("race.id")
	KeyTasks     = attribute.Key("race.tasks")
	KeyTimeoutMS = attribute.Key("race.timeout_ms")
	KeyVariant   = attribute.Key("race.variant")
	KeyTask      = attribute.Key("race.task")
	KeyOutcome   = attribute.Key("race.outcome")
	KeyStatus    = attribute.Key("race.status")
	KeyLabel     = attribute.Key("race.label")
)

// Tracer returns the racecoord tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// RaceAttributes describes a race at start.
func RaceAttributes(id string, tasks int, timeout time.Duration, variant string) []attribute.KeyValue {
	return []attribute.KeyValue{
		KeyRaceID.String(id),
		KeyTasks.Int(tasks),
		KeyTimeoutMS.Int64(timeout.Milliseconds()),
		KeyVariant.String(variant),
	}
}

// TaskAttributes describes a single task span.
func TaskAttributes(raceID, name string) []attribute.KeyValue {
	return []attribute.KeyValue{KeyRaceID.String(raceID), KeyTask.String(name)}
}

// EndTaskSpan records the task status and ends the span. Failed tasks get an
// error status.
func EndTaskSpan(span trace.Span, ok bool, status int64) {
	span.SetAttributes(KeyStatus.Int64(status))
	if !ok {
		span.SetStatus(codes.Error, "task failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// EndRaceSpan records the resolved outcome and ends the race span. Only a
// success outcome is reported as Ok.
func EndRaceSpan(span trace.Span, outcome string, status int64, label string) {
	span.SetAttributes(
		KeyOutcome.String(outcome),
		KeyStatus.Int64(status),
		KeyLabel.String(label),
	)
	if status < 0 {
		span.SetStatus(codes.Error, outcome)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
