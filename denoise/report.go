package denoise

import (
	"github.com/skillsenselab/ecgflow/interval"
	"github.com/skillsenselab/ecgflow/pipeline"
)

// StageInfo summarizes one committed stage for reporting.
type StageInfo struct {
	Name string `json:"name"`
	// Length is the stage's sample count.
	Length int `json:"length"`
	// Removed are the spans the stage removed, in its parent's space.
	Removed []interval.Span `json:"removed,omitempty"`
	// Retained reports whether the stage's array survived the retention
	// policy.
	Retained bool `json:"retained"`
	// DurationMs is the stage's wall time in milliseconds.
	DurationMs int64 `json:"duration_ms"`
}

// Report is the run summary: per-stage info, native detections, and every
// detection projected onto the original and reference spaces.
type Report struct {
	RunID      string               `json:"run_id"`
	ElapsedMs  int64                `json:"elapsed_ms"`
	Stages     []StageInfo          `json:"stages"`
	Detections []pipeline.Detection `json:"detections"`
	// OnOriginal maps detection name to its projection onto the original
	// signal. Gap spans appear under "gaps" as supplied.
	OnOriginal map[string]pipeline.Projection `json:"on_original"`
	// OnStart maps detection name to its projection onto the reference
	// stage. Gaps were removed before the reference exists, so "gaps" is
	// always empty there.
	OnStart map[string]pipeline.Projection `json:"on_start"`
}

// BuildReport summarizes a run. It works on partial results too: stages
// and detections committed before a failure are reported, the rest is
// absent.
func BuildReport(res *pipeline.Result) (*Report, error) {
	rep := &Report{
		RunID:      res.RunID,
		ElapsedMs:  res.Elapsed.Milliseconds(),
		Detections: res.Detections(),
		OnOriginal: make(map[string]pipeline.Projection),
		OnStart:    make(map[string]pipeline.Projection),
	}

	for _, name := range res.StageNames() {
		s, err := res.Stage(name)
		if err != nil {
			return nil, err
		}
		removed, err := res.Removed(name)
		if err != nil {
			return nil, err
		}
		_, sigErr := res.StageSignal(name)
		rep.Stages = append(rep.Stages, StageInfo{
			Name:       name,
			Length:     s.Len(),
			Removed:    removed,
			Retained:   sigErr == nil,
			DurationMs: res.Durations[name].Milliseconds(),
		})
	}

	chain := res.Chain()
	ref := chain.Reference()
	for _, d := range res.Detections() {
		onOrig, err := res.ProjectedToOriginal(d.Name)
		if err != nil {
			return nil, err
		}
		rep.OnOriginal[d.Name] = onOrig
		if ref != "" {
			onStart, err := res.ProjectedToStart(d.Name)
			if err != nil {
				return nil, err
			}
			rep.OnStart[d.Name] = onStart
		}
	}

	// Gap spans already live in the original space.
	if chain.Contains(StageNoGaps) {
		gaps, err := res.Removed(StageNoGaps)
		if err != nil {
			return nil, err
		}
		rep.OnOriginal[DetectionGaps] = pipeline.Projection{
			Target: chain.Root(),
			Spans:  gaps,
		}
		if ref != "" {
			rep.OnStart[DetectionGaps] = pipeline.Projection{Target: ref}
		}
	}

	return rep, nil
}
