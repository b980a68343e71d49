package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return sr, tp
}

func attrValue(span sdktrace.ReadOnlySpan, key string) (string, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value.Emit(), true
		}
	}
	return "", false
}

func TestEndRaceSpan(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		outcome  string
		status   int64
		label    string
		wantCode codes.Code
	}{
		{"success", "success", 1000, "task1", codes.Ok},
		{"timeout", "timed_out", -2, "", codes.Error},
		{"all failed", "all_failed", -1, "", codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sr, tp := newRecorder()
			_, span := tp.Tracer(InstrumentationName).Start(context.Background(), "race")
			span.SetAttributes(RaceAttributes("id-1", 4, 32*time.Second, "filtered")...)
			EndRaceSpan(span, tt.outcome, tt.status, tt.label)

			ended := sr.Ended()
			if len(ended) != 1 {
				t.Fatalf("expected 1 ended span, got %d", len(ended))
			}
			s := ended[0]
			if s.Status().Code != tt.wantCode {
				t.Errorf("status code = %v, want %v", s.Status().Code, tt.wantCode)
			}
			if v, ok := attrValue(s, "race.outcome"); !ok || v != tt.outcome {
				t.Errorf("race.outcome = %q, want %q", v, tt.outcome)
			}
			if v, ok := attrValue(s, "race.timeout_ms"); !ok || v != "32000" {
				t.Errorf("race.timeout_ms = %q, want 32000", v)
			}
		})
	}
}

func TestEndTaskSpan(t *testing.T) {
	t.Parallel()
	sr, tp := newRecorder()
	tracer := tp.Tracer(InstrumentationName)

	_, ok := tracer.Start(context.Background(), "race.task")
	ok.SetAttributes(TaskAttributes("id-1", "task1")...)
	EndTaskSpan(ok, true, 500)

	_, failed := tracer.Start(context.Background(), "race.task")
	EndTaskSpan(failed, false, -1)

	ended := sr.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected 2 ended spans, got %d", len(ended))
	}
	if ended[0].Status().Code != codes.Ok {
		t.Errorf("successful task span should be Ok, got %v", ended[0].Status().Code)
	}
	if v, _ := attrValue(ended[0], "race.task"); v != "task1" {
		t.Errorf("race.task = %q, want task1", v)
	}
	if ended[1].Status().Code != codes.Error {
		t.Errorf("failed task span should be Error, got %v", ended[1].Status().Code)
	}
}

func TestTracer_NoProvider(t *testing.T) {
	t.Parallel()
	_, span := Tracer().Start(context.Background(), "race")
	EndRaceSpan(span, "success", 1, "x")
}
