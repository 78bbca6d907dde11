package pipeline

import (
	"fmt"

	"github.com/skillsenselab/ecgflow/indexmap"
	"github.com/skillsenselab/ecgflow/interval"
)

// Projection is a detection re-expressed in a target stage's space.
// Spans are sorted and non-overlapping. Fragments that fell entirely
// inside material removed before a forward target are listed in Dropped
// with their reason, never silently discarded.
type Projection struct {
	// Target names the stage space the spans are expressed in.
	Target string `json:"target"`
	// Spans are the surviving projected fragments.
	Spans []interval.Span `json:"spans"`
	// Dropped records source-space fragments that vanished on the way.
	Dropped []DroppedSpan `json:"dropped,omitempty"`
}

// DroppedSpan records a fragment that did not survive a forward projection.
type DroppedSpan struct {
	// Span is the fragment in its source stage's space.
	Span interval.Span `json:"span"`
	// Reason says why the fragment has no image in the target space.
	Reason string `json:"reason"`
}

// Projector projects detection fragments across the stage chain.
type Projector struct {
	chain *indexmap.Chain
}

// NewProjector creates a Projector over the given chain.
func NewProjector(chain *indexmap.Chain) *Projector {
	return &Projector{chain: chain}
}

// Project re-expresses one detection's fragments in the target stage's
// space. Raw fragments are merged first (sorting, then coalescing hits
// whose start does not exceed the previous end), a no-op when the input
// is already merged. Backward targets widen and never drop; forward
// targets may drop fragments wholly inside removed material.
func (p *Projector) Project(d Detection, target string) (Projection, error) {
	out := Projection{Target: target}
	for _, s := range interval.Merge(d.Spans) {
		projected, err := p.chain.Project(s, d.Stage, target)
		if err != nil {
			return Projection{}, err
		}
		if len(projected) == 0 {
			out.Dropped = append(out.Dropped, DroppedSpan{
				Span:   s,
				Reason: fmt.Sprintf("removed before stage %q", target),
			})
			continue
		}
		out.Spans = append(out.Spans, projected...)
	}
	// Backward-projected neighbors may widen into overlap; the target-space
	// guarantee (sorted, non-overlapping) wins over count preservation in
	// that corner.
	out.Spans = interval.Merge(out.Spans)
	return out, nil
}

// ProjectAll projects every detection onto every target, keyed by
// detection name then target name.
func (p *Projector) ProjectAll(detections []Detection, targets []string) (map[string]map[string]Projection, error) {
	out := make(map[string]map[string]Projection, len(detections))
	for _, d := range detections {
		byTarget := make(map[string]Projection, len(targets))
		for _, target := range targets {
			proj, err := p.Project(d, target)
			if err != nil {
				return nil, err
			}
			byTarget[target] = proj
		}
		out[d.Name] = byTarget
	}
	return out, nil
}
