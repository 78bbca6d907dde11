package pipeline

import (
	"time"

	"github.com/skillsenselab/ecgflow/errors"
	"github.com/skillsenselab/ecgflow/indexmap"
	"github.com/skillsenselab/ecgflow/interval"
)

// Detection is the merged output of one detection stage, expressed in the
// index space of the stage it ran against.
type Detection struct {
	// Name is the detection spec's name.
	Name string `json:"name"`
	// Stage names the index space the spans live in.
	Stage string `json:"stage"`
	// Spans are the merged, sorted fragments.
	Spans []interval.Span `json:"spans"`
}

// Result is the reporting surface of a run. It stays valid and queryable
// after partial failure: everything committed before the failing stage is
// present.
type Result struct {
	// RunID uniquely identifies the run.
	RunID string
	// Durations holds per-stage wall time keyed by stage name.
	Durations map[string]time.Duration
	// Elapsed is the total run wall time.
	Elapsed time.Duration

	chain      *indexmap.Chain
	stages     map[string]*Stage
	order      []string
	detections []Detection
}

func (r *Result) commit(s *Stage) {
	r.stages[s.name] = s
	r.order = append(r.order, s.name)
}

// Chain returns the index-map chain accumulated so far.
func (r *Result) Chain() *indexmap.Chain { return r.chain }

// StageNames returns the committed array-producing stages in order,
// original first.
func (r *Result) StageNames() []string { return r.order }

// Stage returns the named committed stage.
func (r *Result) Stage(name string) (*Stage, error) {
	s, ok := r.stages[name]
	if !ok {
		return nil, errors.UnknownStage(name)
	}
	return s, nil
}

// Final returns the last committed array-producing stage, or nil when a
// run failed before the root was committed.
func (r *Result) Final() *Stage {
	if len(r.order) == 0 {
		return nil
	}
	return r.stages[r.order[len(r.order)-1]]
}

// StageSignal returns the named stage's array. It fails with UNKNOWN_STAGE
// for names never committed and RELEASED_STAGE for arrays the retention
// policy dropped.
func (r *Result) StageSignal(name string) ([]float64, error) {
	s, err := r.Stage(name)
	if err != nil {
		return nil, err
	}
	return s.Signal()
}

// Removed returns the spans the named stage removed, in its parent's index
// space. Identity stages return an empty slice.
func (r *Result) Removed(name string) ([]interval.Span, error) {
	m, err := r.chain.MapInto(name)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	return m.Removed(), nil
}

// Detections returns every recorded detection in spec order.
func (r *Result) Detections() []Detection { return r.detections }

// Detection returns the named detection.
func (r *Result) Detection(name string) (Detection, error) {
	for _, d := range r.detections {
		if d.Name == name {
			return d, nil
		}
	}
	return Detection{}, errors.NotFound("detection", name)
}

// Projected re-expresses the named detection's fragments in the target
// stage's space. See Projector for the merge and drop semantics.
func (r *Result) Projected(detection, target string) (Projection, error) {
	d, err := r.Detection(detection)
	if err != nil {
		return Projection{}, err
	}
	return NewProjector(r.chain).Project(d, target)
}

// ProjectedToOriginal projects the named detection onto the original signal.
func (r *Result) ProjectedToOriginal(detection string) (Projection, error) {
	return r.Projected(detection, r.chain.Root())
}

// ProjectedToStart projects the named detection onto the reference stage.
func (r *Result) ProjectedToStart(detection string) (Projection, error) {
	return r.Projected(detection, r.chain.Reference())
}
