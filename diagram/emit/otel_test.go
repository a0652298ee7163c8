package emit

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestTracer(t *testing.T) (*OTelEmitter, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewOTelEmitter(tp.Tracer("test")), exporter
}

func attributeMap(attrs []attribute.KeyValue) map[string]interface{} {
	m := make(map[string]interface{}, len(attrs))
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}
	return m
}

func TestOTelEmitter_Emit(t *testing.T) {
	emitter, exporter := newTestTracer(t)

	emitter.Emit(Event{
		RunID: "run-001",
		Stage: "segment",
		Msg:   "segment_done",
		Meta: map[string]interface{}{
			"steps":       3,
			"decisions":   int64(1),
			"ratio":       0.5,
			"has_branch":  true,
			"duration_ms": 2 * time.Millisecond,
			"branches":    []string{"a"},
		},
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name != "segment_done" {
		t.Errorf("span name = %q, want %q", span.Name, "segment_done")
	}

	attrs := attributeMap(span.Attributes)
	checks := map[string]interface{}{
		"procdiagram.run_id":   "run-001",
		"procdiagram.stage":    "segment",
		"procdiagram.position": int64(0),
		"steps":                int64(3),
		"decisions":            int64(1),
		"ratio":                0.5,
		"has_branch":           true,
		"duration_ms":          int64(2),
		"branches":             "[a]",
	}
	for key, want := range checks {
		if got := attrs[key]; got != want {
			t.Errorf("attribute %s = %v (%T), want %v (%T)", key, got, got, want, want)
		}
	}
	if span.Status.Code == codes.Error {
		t.Error("span should not have error status")
	}
}

func TestOTelEmitter_ErrorStatus(t *testing.T) {
	emitter, exporter := newTestTracer(t)

	emitter.Emit(Event{
		RunID:    "run-001",
		Stage:    "segment",
		Position: 3,
		Msg:      "generate_error",
		Meta:     map[string]interface{}{"error": "malformed decision segment"},
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("status code = %v, want %v", spans[0].Status.Code, codes.Error)
	}
	if spans[0].Status.Description != "malformed decision segment" {
		t.Errorf("status description = %q", spans[0].Status.Description)
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected a recorded error event on the span")
	}
}

func TestOTelEmitter_EmitBatch(t *testing.T) {
	emitter, exporter := newTestTracer(t)

	events := []Event{
		{RunID: "run-1", Msg: "generate_start"},
		{RunID: "run-1", Msg: "segment_done"},
		{RunID: "run-1", Msg: "generate_done"},
	}
	if err := emitter.EmitBatch(context.Background(), events); err != nil {
		t.Fatalf("EmitBatch: %v", err)
	}
	if got := len(exporter.GetSpans()); got != 3 {
		t.Errorf("got %d spans, want 3", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := emitter.EmitBatch(ctx, events); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestOTelEmitter_Flush(t *testing.T) {
	emitter, _ := newTestTracer(t)
	if err := emitter.Flush(context.Background()); err != nil {
		t.Errorf("Flush: %v", err)
	}
}
