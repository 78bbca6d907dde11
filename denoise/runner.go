package denoise

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/skillsenselab/ecgflow/config"
	"github.com/skillsenselab/ecgflow/detect"
	"github.com/skillsenselab/ecgflow/errors"
	"github.com/skillsenselab/ecgflow/filter"
	"github.com/skillsenselab/ecgflow/interval"
	"github.com/skillsenselab/ecgflow/logger"
	"github.com/skillsenselab/ecgflow/observability"
	"github.com/skillsenselab/ecgflow/pipeline"
)

// Canonical stage and detection names.
const (
	StageNoGaps      = "no_gaps"
	StageStart       = "start"
	StageNoOutliers  = "no_outliers"
	StageNoRDropouts = "no_rdropouts"
	StageFinal       = "final"

	DetectionOutliers  = "outliers"
	DetectionRDropouts = "rdropouts"
	DetectionMotions   = "motions"
	// DetectionGaps labels the caller-supplied gap spans in reports; gaps
	// are never detected, only removed.
	DetectionGaps = "gaps"
)

// Runner executes the canonical denoising pipeline.
type Runner struct {
	cfg         config.PipelineConfig
	log         *logger.Logger
	metrics     *observability.Metrics
	serviceName string
	filt        *filter.Filter
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for run events.
func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithMetrics enables metric recording for runs.
func WithMetrics(serviceName string, m *observability.Metrics) Option {
	return func(r *Runner) {
		r.serviceName = serviceName
		r.metrics = m
	}
}

// NewRunner validates the configuration and prepares the filter.
func NewRunner(cfg config.PipelineConfig, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{cfg: cfg, serviceName: "ecgflow"}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.WithComponent("denoise")
	}

	if cfg.Filter.Enabled {
		ftype := filter.TypeBandpass
		if cfg.Filter.Type == "highpass" {
			ftype = filter.TypeHighpass
		}
		f, err := filter.New(filter.Params{
			Type:       ftype,
			SampleRate: cfg.SampleRate,
			LowCut:     cfg.Filter.LowCut,
			HighCut:    cfg.Filter.HighCut,
			Order:      cfg.Filter.Order,
		})
		if err != nil {
			return nil, err
		}
		r.filt = f
	}
	return r, nil
}

// Specs returns the stage sequence for the given gap spans.
func (r *Runner) Specs(gaps []interval.Span) []pipeline.StageSpec {
	specs := []pipeline.StageSpec{
		pipeline.Transform(StageNoGaps, pipeline.SpanRemover(gaps)),
		pipeline.Filter(StageStart, r.filterFunc()).AsReference(),
	}

	if r.cfg.Outliers.Enabled {
		specs = append(specs,
			pipeline.Detect(DetectionOutliers, detect.Outliers(detect.OutlierParams{
				ZThresh:  r.cfg.Outliers.ZThresh,
				MinLen:   r.cfg.Outliers.MinLen,
				MergeGap: r.cfg.Outliers.MergeGap,
			})),
			pipeline.RemoveDetected(StageNoOutliers, DetectionOutliers),
		)
	} else {
		specs = append(specs, pipeline.Transform(StageNoOutliers, pipeline.SpanRemover(nil)))
	}

	if r.cfg.RDropouts.Enabled {
		specs = append(specs,
			pipeline.Detect(DetectionRDropouts, detect.RDropouts(detect.RDropoutParams{
				Win:       r.cfg.RDropouts.Win,
				VarThresh: r.cfg.RDropouts.VarThresh,
				MergeGap:  r.cfg.RDropouts.MergeGap,
			})),
			pipeline.RemoveDetected(StageNoRDropouts, DetectionRDropouts),
		)
	} else {
		specs = append(specs, pipeline.Transform(StageNoRDropouts, pipeline.SpanRemover(nil)))
	}

	if r.cfg.Motions.Enabled {
		specs = append(specs,
			pipeline.Detect(DetectionMotions, detect.Motions(detect.MotionParams{
				Win:       r.cfg.Motions.Win,
				StdThresh: r.cfg.Motions.StdThresh,
				MergeGap:  r.cfg.Motions.MergeGap,
			})),
			pipeline.RemoveDetected(StageFinal, DetectionMotions),
		)
	} else {
		specs = append(specs, pipeline.Transform(StageFinal, pipeline.SpanRemover(nil)))
	}

	return specs
}

func (r *Runner) filterFunc() pipeline.FilterFunc {
	if r.filt == nil {
		return func(_ context.Context, x []float64) ([]float64, error) {
			return append([]float64(nil), x...), nil
		}
	}
	f := r.filt
	return func(_ context.Context, x []float64) ([]float64, error) {
		return f.Apply(x), nil
	}
}

// Run executes the pipeline against the signal, with the gap spans
// expressed in the original index space.
func (r *Runner) Run(ctx context.Context, signal []float64, gaps []interval.Span) (*pipeline.Result, error) {
	p := pipeline.New(
		pipeline.WithLogger(r.log),
		pipeline.WithMemoryLean(r.cfg.MemoryLean),
		pipeline.WithDetectParallelism(r.cfg.DetectParallelism),
	)

	rc := observability.NewRunContext(r.serviceName, "", r.metrics)
	sctx, span := rc.StartRunSpan(ctx)

	res, err := p.Run(observability.WithRunContext(sctx, rc), signal, r.Specs(gaps))
	rc.RunID = res.RunID
	span.SetAttributes(attribute.String(observability.AttrRunID, res.RunID))

	status := "ok"
	if err != nil {
		status = "error"
		if r.metrics != nil {
			r.metrics.RecordError(sctx, errorCode(err), failedStage(err))
		}
	}
	r.recordStages(sctx, res)
	rc.EndRun(sctx, span, status, err)

	return res, err
}

// errorCode extracts the structured code for metric labeling.
func errorCode(err error) string {
	if e, ok := errors.AsError(err); ok {
		return string(e.Code)
	}
	return "UNKNOWN"
}

// failedStage extracts the failing stage name, if the error names one.
func failedStage(err error) string {
	e, ok := errors.AsError(err)
	if !ok {
		return ""
	}
	stage, _ := e.Details["stage"].(string)
	return stage
}

func (r *Runner) recordStages(ctx context.Context, res *pipeline.Result) {
	if r.metrics == nil {
		return
	}
	for _, name := range res.StageNames() {
		if name == pipeline.OriginalStage {
			continue
		}
		removed, _ := res.Removed(name)
		r.metrics.RecordStage(ctx, name, res.Durations[name], interval.TotalLen(removed))
	}
	for _, d := range res.Detections() {
		r.metrics.RecordDetection(ctx, d.Name, len(d.Spans))
	}
}
