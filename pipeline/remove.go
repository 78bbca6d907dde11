package pipeline

import (
	"context"
	"fmt"

	"github.com/skillsenselab/ecgflow/interval"
)

// RemoveSpans returns a copy of signal with the given spans cut out.
// The spans must be normalized (sorted, disjoint, within bounds).
func RemoveSpans(signal []float64, removed []interval.Span) []float64 {
	kept := interval.Invert(removed, len(signal))
	out := make([]float64, 0, len(signal)-interval.TotalLen(removed))
	for _, k := range kept {
		out = append(out, signal[k.Start:k.End]...)
	}
	return out
}

// SpanRemover returns a transform that removes a fixed set of spans,
// normalizing them against the incoming signal first. Gap removal uses
// this with the caller-supplied gap list.
func SpanRemover(spans []interval.Span) TransformFunc {
	return func(_ context.Context, signal []float64) ([]float64, []interval.Span, error) {
		removed := interval.Normalize(spans, len(signal))
		return RemoveSpans(signal, removed), removed, nil
	}
}

// RemoveDetected creates a transform stage that removes the fragments a
// previously recorded detection reported. The detection must have run
// against the stage this transform consumes, otherwise the index spaces
// disagree and the run aborts.
func RemoveDetected(name, detection string) StageSpec {
	return StageSpec{Name: name, Kind: KindTransform, fromDetection: detection}
}

// resolveDetectionRemoval produces the transform inputs for a
// RemoveDetected spec.
func resolveDetectionRemoval(res *Result, cur *Stage, spec StageSpec) ([]interval.Span, error) {
	d, err := res.Detection(spec.fromDetection)
	if err != nil {
		return nil, err
	}
	if d.Stage != cur.Name() {
		return nil, fmt.Errorf("detection %q lives in stage %q space but %q consumes stage %q",
			spec.fromDetection, d.Stage, spec.Name, cur.Name())
	}
	return d.Spans, nil
}
