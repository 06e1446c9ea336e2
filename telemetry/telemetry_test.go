package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/nathoo/doomcrawl/types"
)

func recorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	rec := tracetest.NewSpanRecorder()
	return rec, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
}

func attr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestStepSpan(t *testing.T) {
	rec, tp := recorder()
	tracer := tp.Tracer("test")

	_, span := StartStep(context.Background(), tracer, types.ModeExplore, 4)
	EndStep(span, types.Result{
		Mode: types.ModeEncounter,
		Events: []types.Event{
			{Kind: types.EventInfo, Text: "A Goblin blocks your path!"},
			{Kind: types.EventError, Text: "I don't understand that."},
		},
	}, 42)

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	s := spans[0]
	if s.Name() != "game.step" {
		t.Errorf("name = %q", s.Name())
	}
	if v, _ := attr(s.Attributes(), "game.turn"); v.AsInt64() != 4 {
		t.Errorf("game.turn = %v", v)
	}
	if v, _ := attr(s.Attributes(), "game.mode"); v.AsString() != "encounter" {
		t.Errorf("game.mode = %v", v)
	}
	if v, _ := attr(s.Attributes(), "game.events"); v.AsInt64() != 2 {
		t.Errorf("game.events = %v", v)
	}
	if v, _ := attr(s.Attributes(), "game.rng_position"); v.AsInt64() != 42 {
		t.Errorf("game.rng_position = %v", v)
	}
	if len(s.Events()) != 1 || s.Events()[0].Name != "rejected" {
		t.Errorf("span events = %+v, want one rejected", s.Events())
	}
}

func TestFail(t *testing.T) {
	rec, tp := recorder()
	_, span := tp.Tracer("test").Start(context.Background(), "game.save")
	Fail(span, errors.New("disk full"))

	s := rec.Ended()[0]
	if s.Status().Code != codes.Error {
		t.Errorf("status = %v, want error", s.Status().Code)
	}
	if s.Status().Description != "disk full" {
		t.Errorf("description = %q", s.Status().Description)
	}
}

func TestNoopTracer(t *testing.T) {
	_, span := StartStep(context.Background(), NoopTracer(), types.ModeExplore, 0)
	if span.SpanContext().IsValid() {
		t.Error("noop span should have an invalid span context")
	}
	EndStep(span, types.Result{}, 0)
}
