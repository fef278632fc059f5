// Package tracing exports engine runs as OpenTelemetry spans.
//
// Each run becomes one span named "branchtime.engine.run" carrying the run
// id and tree size. Every pass adds an event; a failed run records the
// error and ends with an error status.
package tracing

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/branchtime/pkg/buildinfo"
	bterrors "github.com/matzehuels/branchtime/pkg/errors"
	"github.com/matzehuels/branchtime/pkg/observability"
)

// SpanName is the name of the span created for each run.
const SpanName = "branchtime.engine.run"

const instrumentationName = "github.com/matzehuels/branchtime/pkg/engine"

// EngineHooks implements observability.EngineHooks with a tracer.
type EngineHooks struct {
	tracer trace.Tracer
	spans  sync.Map // run id -> trace.Span
}

var _ observability.EngineHooks = (*EngineHooks)(nil)

// NewEngineHooks returns hooks that trace through tp, or through the global
// tracer provider when tp is nil.
func NewEngineHooks(tp trace.TracerProvider) *EngineHooks {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &EngineHooks{tracer: tp.Tracer(instrumentationName, trace.WithInstrumentationVersion(buildinfo.Version))}
}

func (h *EngineHooks) OnRunStart(ctx context.Context, info observability.RunInfo) {
	_, span := h.tracer.Start(ctx, SpanName, trace.WithAttributes(
		attribute.String("branchtime.run_id", info.RunID),
		attribute.Int("branchtime.nodes", info.Nodes),
		attribute.Int("branchtime.grid_size", info.GridSize),
		attribute.Int("branchtime.workers", info.Workers),
	))
	h.spans.Store(info.RunID, span)
}

func (h *EngineHooks) OnPassComplete(_ context.Context, info observability.RunInfo, pass string, d time.Duration, err error) {
	v, ok := h.spans.Load(info.RunID)
	if !ok {
		return
	}
	span := v.(trace.Span)
	span.AddEvent("pass "+pass, trace.WithAttributes(
		attribute.String("branchtime.pass", pass),
		attribute.Float64("branchtime.duration_seconds", d.Seconds()),
	))
	if err != nil {
		span.RecordError(err)
	}
}

func (h *EngineHooks) OnRunComplete(_ context.Context, info observability.RunInfo, logL float64, _ time.Duration, err error) {
	v, ok := h.spans.LoadAndDelete(info.RunID)
	if !ok {
		return
	}
	span := v.(trace.Span)
	defer span.End()

	if err != nil {
		span.SetAttributes(attribute.String("branchtime.error_code", string(bterrors.GetCode(err))))
		span.SetStatus(codes.Error, bterrors.UserMessage(err))
		return
	}
	span.SetAttributes(attribute.Float64("branchtime.log_likelihood", logL))
	span.SetStatus(codes.Ok, "")
}
