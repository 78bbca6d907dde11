package pipeline

import (
	"context"

	"github.com/skillsenselab/ecgflow/interval"
)

// Kind discriminates the three stage roles.
type Kind string

const (
	// KindTransform is a length-changing stage.
	KindTransform Kind = "transform"
	// KindFilter is a length-preserving stage.
	KindFilter Kind = "filter"
	// KindDetect is a read-only detection stage.
	KindDetect Kind = "detect"
)

// TransformFunc consumes the parent array and returns the child array plus
// the parent-space spans it removed. The removed spans must be sorted,
// disjoint, and within bounds; interval.Normalize puts raw spans into that
// form.
type TransformFunc func(ctx context.Context, signal []float64) ([]float64, []interval.Span, error)

// FilterFunc consumes the parent array and returns an array of identical
// length.
type FilterFunc func(ctx context.Context, signal []float64) ([]float64, error)

// DetectFunc reads the array and returns raw fragment spans in the array's
// own index space. Overlapping or unsorted raw hits are fine; the pipeline
// merges them on ingestion.
type DetectFunc func(ctx context.Context, signal []float64) ([]interval.Span, error)

// StageSpec describes one step of a run. Build specs with Transform,
// Filter, and Detect rather than struct literals.
type StageSpec struct {
	// Name identifies the stage; array-producing stages must be unique
	// within a run.
	Name string
	// Kind selects which of the three functions runs.
	Kind Kind
	// Reference marks this stage's output as the "start" space that
	// ProjectToStart targets. At most one spec may carry it.
	Reference bool

	transform TransformFunc
	filter    FilterFunc
	detect    DetectFunc
	// fromDetection names a recorded detection whose fragments this
	// transform removes; set by RemoveDetected.
	fromDetection string
}

// Transform creates a length-changing stage spec.
func Transform(name string, fn TransformFunc) StageSpec {
	return StageSpec{Name: name, Kind: KindTransform, transform: fn}
}

// Filter creates a length-preserving stage spec.
func Filter(name string, fn FilterFunc) StageSpec {
	return StageSpec{Name: name, Kind: KindFilter, filter: fn}
}

// Detect creates a read-only detection stage spec.
func Detect(name string, fn DetectFunc) StageSpec {
	return StageSpec{Name: name, Kind: KindDetect, detect: fn}
}

// AsReference returns a copy of the spec marked as the reference stage.
func (s StageSpec) AsReference() StageSpec {
	s.Reference = true
	return s
}
