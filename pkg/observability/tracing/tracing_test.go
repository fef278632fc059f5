package tracing

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	bterrors "github.com/matzehuels/branchtime/pkg/errors"
	"github.com/matzehuels/branchtime/pkg/observability"
)

func newRecorder(t *testing.T) (*tracetest.SpanRecorder, *EngineHooks) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, NewEngineHooks(tp)
}

func attr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestSuccessfulRun(t *testing.T) {
	sr, h := newRecorder(t)
	ctx := context.Background()
	info := observability.RunInfo{RunID: "run-1", Nodes: 5, GridSize: 20, Workers: 2}

	h.OnRunStart(ctx, info)
	h.OnPassComplete(ctx, info, observability.PassUpward, time.Millisecond, nil)
	h.OnPassComplete(ctx, info, observability.PassDownward, time.Millisecond, nil)
	h.OnPassComplete(ctx, info, observability.PassPosterior, time.Millisecond, nil)
	h.OnRunComplete(ctx, info, -4.5, 3*time.Millisecond, nil)

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != SpanName {
		t.Errorf("Name() = %s, want %s", span.Name(), SpanName)
	}
	if got := len(span.Events()); got != 3 {
		t.Errorf("events = %d, want 3", got)
	}
	if span.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", span.Status().Code)
	}
	if v, ok := attr(span.Attributes(), "branchtime.run_id"); !ok || v.AsString() != "run-1" {
		t.Errorf("run_id attribute = %v, %v", v, ok)
	}
	if v, ok := attr(span.Attributes(), "branchtime.nodes"); !ok || v.AsInt64() != 5 {
		t.Errorf("nodes attribute = %v, %v", v, ok)
	}
	if v, ok := attr(span.Attributes(), "branchtime.log_likelihood"); !ok || v.AsFloat64() != -4.5 {
		t.Errorf("log_likelihood attribute = %v, %v", v, ok)
	}
}

func TestFailedRun(t *testing.T) {
	sr, h := newRecorder(t)
	ctx := context.Background()
	info := observability.RunInfo{RunID: "run-2", Nodes: 3}
	err := bterrors.Numerical(observability.PassUpward, 1, -1, 0)

	h.OnRunStart(ctx, info)
	h.OnPassComplete(ctx, info, observability.PassUpward, time.Millisecond, err)
	h.OnRunComplete(ctx, info, 0, time.Millisecond, err)

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", span.Status().Code)
	}
	if v, ok := attr(span.Attributes(), "branchtime.error_code"); !ok || v.AsString() != "NUMERICAL_INSTABILITY" {
		t.Errorf("error_code attribute = %v, %v", v, ok)
	}
	// One pass event plus the recorded error.
	if got := len(span.Events()); got != 2 {
		t.Errorf("events = %d, want 2", got)
	}
}

func TestConcurrentRunsKeepSeparateSpans(t *testing.T) {
	sr, h := newRecorder(t)
	ctx := context.Background()
	a := observability.RunInfo{RunID: "a"}
	b := observability.RunInfo{RunID: "b"}

	h.OnRunStart(ctx, a)
	h.OnRunStart(ctx, b)
	h.OnPassComplete(ctx, b, observability.PassUpward, time.Millisecond, nil)
	h.OnRunComplete(ctx, b, -1, time.Millisecond, nil)
	if got := len(sr.Ended()); got != 1 {
		t.Fatalf("ended spans = %d, want 1", got)
	}
	h.OnRunComplete(ctx, a, -2, time.Millisecond, nil)

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}
	if got := len(spans[0].Events()); got != 1 {
		t.Errorf("run b events = %d, want 1", got)
	}
	if got := len(spans[1].Events()); got != 0 {
		t.Errorf("run a events = %d, want 0", got)
	}
}

func TestUnknownRunIgnored(t *testing.T) {
	sr, h := newRecorder(t)
	info := observability.RunInfo{RunID: "never-started"}
	h.OnPassComplete(context.Background(), info, observability.PassUpward, 0, nil)
	h.OnRunComplete(context.Background(), info, 0, 0, nil)
	if got := len(sr.Ended()); got != 0 {
		t.Errorf("ended spans = %d, want 0", got)
	}
}
