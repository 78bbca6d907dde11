package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys used across pipeline traces.
const (
	AttrServiceName  = "service.name"
	AttrRunID        = "pipeline.run_id"
	AttrStage        = "pipeline.stage"
	AttrDetection    = "pipeline.detection"
	AttrStatus       = "status"
	AttrDurationMs   = "duration_ms"
	AttrErrorMessage = "error.message"
)

// RunContext holds observability context for one pipeline run.
type RunContext struct {
	ServiceName string
	RunID       string
	StartTime   time.Time
	Metrics     *Metrics
}

// NewRunContext creates a run context. If metrics is nil, metric recording
// is silently skipped.
func NewRunContext(serviceName, runID string, metrics *Metrics) *RunContext {
	return &RunContext{
		ServiceName: serviceName,
		RunID:       runID,
		StartTime:   time.Now(),
		Metrics:     metrics,
	}
}

// runContextKey is the context key for RunContext.
type runContextKey struct{}

// WithRunContext stores a RunContext in the context.
func WithRunContext(ctx context.Context, rc *RunContext) context.Context {
	return context.WithValue(ctx, runContextKey{}, rc)
}

// RunContextFromContext retrieves the RunContext from context, or nil.
func RunContextFromContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runContextKey{}).(*RunContext); ok {
		return rc
	}
	return nil
}

// StartRunSpan starts the root span for the run.
func (rc *RunContext) StartRunSpan(ctx context.Context) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, "pipeline.run")
	span.SetAttributes(
		attribute.String(AttrServiceName, rc.ServiceName),
		attribute.String(AttrRunID, rc.RunID),
	)
	return ctx, span
}

// StageSpan starts a child span for one stage.
func (rc *RunContext) StageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, "pipeline.stage")
	span.SetAttributes(
		attribute.String(AttrRunID, rc.RunID),
		attribute.String(AttrStage, stage),
	)
	return ctx, span
}

// EndRun ends the root span and records run metrics.
func (rc *RunContext) EndRun(ctx context.Context, span trace.Span, status string, err error) {
	duration := time.Since(rc.StartTime)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if rc.Metrics != nil {
		rc.Metrics.RecordRun(ctx, status, duration)
	}
}

// Duration returns the elapsed time since the run started.
func (rc *RunContext) Duration() time.Duration {
	return time.Since(rc.StartTime)
}
