package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillsenselab/ecgflow/errors"
	"github.com/skillsenselab/ecgflow/indexmap"
	"github.com/skillsenselab/ecgflow/interval"
	"github.com/skillsenselab/ecgflow/logger"
	"github.com/skillsenselab/ecgflow/observability"
)

// OriginalStage is the name of the root stage every chain starts from.
const OriginalStage = "original"

// Context drives pipeline runs and enforces the retention policy. It is
// mutated only by the sequential driver; detectors never touch it.
type Context struct {
	log            *logger.Logger
	keep           map[string]bool
	memoryLean     bool
	detectParallel int
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger used for run progress events.
func WithLogger(log *logger.Logger) Option {
	return func(c *Context) { c.log = log }
}

// WithKeep names extra stages whose arrays survive the retention policy.
// The original, the reference stage, and the final stage are always kept.
func WithKeep(names ...string) Option {
	return func(c *Context) {
		for _, n := range names {
			c.keep[n] = true
		}
	}
}

// WithMemoryLean toggles the retention policy. When disabled every stage
// array is retained for the lifetime of the Result.
func WithMemoryLean(enabled bool) Option {
	return func(c *Context) { c.memoryLean = enabled }
}

// WithDetectParallelism allows up to max consecutive detection stages to
// run concurrently against the same immutable array. Zero or one keeps
// detection sequential.
func WithDetectParallelism(max int) Option {
	return func(c *Context) { c.detectParallel = max }
}

// New creates a pipeline Context. Memory-lean retention is on by default.
func New(opts ...Option) *Context {
	c := &Context{
		keep:       make(map[string]bool),
		memoryLean: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.GetGlobalLogger().WithComponent("pipeline")
	}
	return c
}

// Run executes the stage specs in order against the original signal.
//
// On failure the returned Result still carries every stage and index map
// committed before the failing stage; the error is a STAGE_FAILED (or a
// map/chain construction error) identifying the stage and cause.
// Cancellation via ctx stops before the next stage call with the same
// partial-result semantics.
func (c *Context) Run(ctx context.Context, original []float64, specs []StageSpec) (*Result, error) {
	res := &Result{
		RunID:     uuid.New().String(),
		chain:     indexmap.NewChain(OriginalStage, len(original)),
		stages:    make(map[string]*Stage),
		Durations: make(map[string]time.Duration),
	}
	started := time.Now()
	defer func() { res.Elapsed = time.Since(started) }()

	if err := validateSpecs(specs); err != nil {
		return res, err
	}

	// Stages are immutable once produced; copying decouples the run from
	// later caller writes into the input slice.
	root := &Stage{
		name:   OriginalStage,
		kind:   KindTransform,
		length: len(original),
		signal: append([]float64(nil), original...),
	}
	res.commit(root)
	cur := root

	// The reference is resolved up front so retire never releases it,
	// explicitly marked or not.
	refName := referenceStage(specs)
	if refName == OriginalStage {
		if err := res.chain.MarkReference(OriginalStage); err != nil {
			return res, err
		}
	}

	c.log.Info("run started", logger.Fields(
		logger.FieldRunID, res.RunID,
		logger.FieldSamples, len(original),
		"stages", len(specs),
	))

	for i := 0; i < len(specs); i++ {
		if err := ctx.Err(); err != nil {
			c.log.Warn("run cancelled", logger.Fields(logger.FieldRunID, res.RunID, logger.FieldStage, specs[i].Name))
			return res, err
		}

		spec := specs[i]
		if spec.Kind == KindDetect {
			// Consecutive detect specs read the same immutable array and
			// may run concurrently.
			j := i
			for j < len(specs) && specs[j].Kind == KindDetect {
				j++
			}
			if err := c.runDetects(ctx, cur, specs[i:j], res); err != nil {
				return res, err
			}
			i = j - 1
			continue
		}

		next, err := c.runStage(ctx, cur, spec, res)
		if err != nil {
			return res, err
		}
		if spec.Name == refName {
			if err := res.chain.MarkReference(spec.Name); err != nil {
				return res, err
			}
		}
		c.retire(cur, res)
		cur = next
	}

	c.log.Info("run finished", logger.Fields(
		logger.FieldRunID, res.RunID,
		"final_len", cur.Len(),
		logger.FieldDuration, time.Since(started).Milliseconds(),
	))
	return res, nil
}

// stageSpan opens a tracing span for one stage when the caller attached a
// run context to ctx; otherwise both returns are no-ops.
func stageSpan(ctx context.Context, name string) (context.Context, func()) {
	rc := observability.RunContextFromContext(ctx)
	if rc == nil {
		return ctx, func() {}
	}
	sctx, span := rc.StageSpan(ctx, name)
	return sctx, func() { span.End() }
}

// runStage executes one array-producing spec and commits its stage.
func (c *Context) runStage(ctx context.Context, cur *Stage, spec StageSpec, res *Result) (*Stage, error) {
	ctx, endSpan := stageSpan(ctx, spec.Name)
	defer endSpan()

	parent, err := cur.Signal()
	if err != nil {
		// Unreachable in a correct retention configuration, checked anyway.
		return nil, err
	}

	started := time.Now()
	var (
		child   []float64
		m       *indexmap.Map
		mapErr  error
		removed []interval.Span
	)
	switch spec.Kind {
	case KindTransform:
		if spec.fromDetection != "" {
			removed, err = resolveDetectionRemoval(res, cur, spec)
			if err != nil {
				return nil, errors.StageFailed(spec.Name, err)
			}
			child = RemoveSpans(parent, removed)
		} else {
			child, removed, err = spec.transform(ctx, parent)
			if err != nil {
				return nil, errors.StageFailed(spec.Name, err)
			}
		}
		m, mapErr = indexmap.New(removed, len(parent))
		if mapErr != nil {
			return nil, mapErr
		}
		if len(child) != m.ChildLen() {
			return nil, errors.InvalidMap(fmt.Sprintf(
				"stage %q returned %d samples but its removal spans imply %d", spec.Name, len(child), m.ChildLen()))
		}
	case KindFilter:
		child, err = spec.filter(ctx, parent)
		if err != nil {
			return nil, errors.StageFailed(spec.Name, err)
		}
		if len(child) != len(parent) {
			return nil, errors.StageFailed(spec.Name, fmt.Errorf(
				"filter changed length from %d to %d", len(parent), len(child)))
		}
		m = indexmap.Identity(len(parent))
	default:
		return nil, errors.InvalidInput("kind", fmt.Sprintf("unsupported stage kind %q", spec.Kind))
	}

	if err := res.chain.Append(spec.Name, m); err != nil {
		return nil, err
	}
	stage := &Stage{name: spec.Name, kind: spec.Kind, length: len(child), signal: child}
	res.commit(stage)
	res.Durations[spec.Name] = time.Since(started)

	c.log.Debug("stage committed", logger.Fields(
		logger.FieldStage, spec.Name,
		logger.FieldSamples, len(child),
		"removed", interval.TotalLen(removed),
		logger.FieldDuration, time.Since(started).Milliseconds(),
	))
	return stage, nil
}

// runDetects executes a run of consecutive detection specs against the
// current stage. Outputs are recorded in spec order regardless of
// completion order; the first failure in spec order wins.
func (c *Context) runDetects(ctx context.Context, cur *Stage, specs []StageSpec, res *Result) error {
	signal, err := cur.Signal()
	if err != nil {
		return err
	}

	raws := make([][]interval.Span, len(specs))
	errs := make([]error, len(specs))
	durations := make([]time.Duration, len(specs))

	if c.detectParallel > 1 && len(specs) > 1 {
		var wg sync.WaitGroup
		sem := make(chan struct{}, c.detectParallel)
		for i := range specs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				dctx, endSpan := stageSpan(ctx, specs[i].Name)
				started := time.Now()
				raws[i], errs[i] = specs[i].detect(dctx, signal)
				durations[i] = time.Since(started)
				endSpan()
			}(i)
		}
		wg.Wait()
	} else {
		for i := range specs {
			dctx, endSpan := stageSpan(ctx, specs[i].Name)
			started := time.Now()
			raws[i], errs[i] = specs[i].detect(dctx, signal)
			durations[i] = time.Since(started)
			endSpan()
		}
	}

	for i, spec := range specs {
		if errs[i] != nil {
			return errors.StageFailed(spec.Name, errs[i])
		}
		merged := interval.Normalize(raws[i], cur.Len())
		res.detections = append(res.detections, Detection{
			Name:  spec.Name,
			Stage: cur.Name(),
			Spans: merged,
		})
		res.Durations[spec.Name] = durations[i]
		c.log.Debug("detection recorded", logger.Fields(
			logger.FieldDetection, spec.Name,
			logger.FieldStage, cur.Name(),
			logger.FieldFragments, len(merged),
			logger.FieldDuration, durations[i].Milliseconds(),
		))
	}
	return nil
}

// retire applies the retention policy to a consumed stage.
func (c *Context) retire(s *Stage, res *Result) {
	if !c.memoryLean || s.released {
		return
	}
	if s.name == OriginalStage || c.keep[s.name] || res.chain.Reference() == s.name {
		return
	}
	s.release()
	c.log.Debug("stage array released", logger.Fields(logger.FieldStage, s.name))
}

// referenceStage resolves the "start" stage name before any stage runs.
// An explicitly marked spec wins; otherwise the first array-producing
// spec, matching a pipeline whose first stage is gap removal. A spec list
// that produces no arrays keeps the root as reference.
func referenceStage(specs []StageSpec) string {
	first := ""
	for _, spec := range specs {
		if spec.Kind == KindDetect {
			continue
		}
		if spec.Reference {
			return spec.Name
		}
		if first == "" {
			first = spec.Name
		}
	}
	if first == "" {
		return OriginalStage
	}
	return first
}

func validateSpecs(specs []StageSpec) error {
	seen := map[string]bool{OriginalStage: true}
	refs := 0
	for _, spec := range specs {
		if spec.Name == "" {
			return errors.InvalidInput("name", "stage spec name must not be empty")
		}
		switch spec.Kind {
		case KindTransform:
			if spec.transform == nil && spec.fromDetection == "" {
				return errors.InvalidInput(spec.Name, "transform spec without function")
			}
		case KindFilter:
			if spec.filter == nil {
				return errors.InvalidInput(spec.Name, "filter spec without function")
			}
		case KindDetect:
			if spec.detect == nil {
				return errors.InvalidInput(spec.Name, "detect spec without function")
			}
		default:
			return errors.InvalidInput(spec.Name, fmt.Sprintf("unknown stage kind %q", spec.Kind))
		}
		if seen[spec.Name] {
			return errors.InvalidInput(spec.Name, "duplicate stage name")
		}
		seen[spec.Name] = true
		if spec.Reference {
			if spec.Kind == KindDetect {
				return errors.InvalidInput(spec.Name, "a detect stage cannot be the reference")
			}
			refs++
		}
	}
	if refs > 1 {
		return errors.InvalidInput("reference", "at most one stage may be marked as reference")
	}
	return nil
}
