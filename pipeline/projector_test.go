package pipeline

import (
	"reflect"
	"testing"

	"github.com/skillsenselab/ecgflow/indexmap"
	"github.com/skillsenselab/ecgflow/interval"
)

// projectorChain builds original(100) -> no_gaps (removes [10,20) and
// [50,55)) -> start (identity reference) -> no_outliers (removes [30,35)).
func projectorChain(t *testing.T) *indexmap.Chain {
	t.Helper()
	chain := indexmap.NewChain(OriginalStage, 100)
	add := func(name string, removed []interval.Span, parentLen int) {
		m, err := indexmap.New(removed, parentLen)
		if err != nil {
			t.Fatalf("map %s: %v", name, err)
		}
		if err := chain.Append(name, m); err != nil {
			t.Fatalf("append %s: %v", name, err)
		}
	}
	add("no_gaps", []interval.Span{{Start: 10, End: 20}, {Start: 50, End: 55}}, 100)
	add("start", nil, 85)
	add("no_outliers", []interval.Span{{Start: 30, End: 35}}, 85)
	if err := chain.MarkReference("start"); err != nil {
		t.Fatal(err)
	}
	return chain
}

func TestProjectMergesAdjacentFragmentsFirst(t *testing.T) {
	chain := projectorChain(t)
	d := Detection{
		Name:  "motions",
		Stage: "start",
		Spans: []interval.Span{{Start: 5, End: 10}, {Start: 10, End: 15}}, // adjacent raw hits
	}
	got, err := NewProjector(chain).Project(d, OriginalStage)
	if err != nil {
		t.Fatal(err)
	}
	// {5,15} after merging; index 14 on start sits at 24 on the original, so
	// the single outward span swallows the removed [10,20).
	want := []interval.Span{{Start: 5, End: 25}}
	if !reflect.DeepEqual(got.Spans, want) {
		t.Errorf("Spans = %v, want %v", got.Spans, want)
	}
	if len(got.Dropped) != 0 {
		t.Errorf("Dropped = %v, want none", got.Dropped)
	}
}

func TestProjectIdempotentOnMergedInput(t *testing.T) {
	chain := projectorChain(t)
	raw := Detection{Name: "m", Stage: "start", Spans: []interval.Span{{Start: 5, End: 10}, {Start: 10, End: 15}}}
	merged := Detection{Name: "m", Stage: "start", Spans: interval.Merge(raw.Spans)}

	p := NewProjector(chain)
	a, err := p.Project(raw, OriginalStage)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Project(merged, OriginalStage)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("raw projection %+v != merged projection %+v", a, b)
	}
}

func TestProjectForwardDropsRemovedFragments(t *testing.T) {
	chain := projectorChain(t)
	d := Detection{
		Name:  "artifacts",
		Stage: OriginalStage,
		Spans: []interval.Span{{Start: 5, End: 8}, {Start: 12, End: 17}, {Start: 60, End: 65}},
	}
	got, err := NewProjector(chain).Project(d, "start")
	if err != nil {
		t.Fatal(err)
	}
	// {12,17} lies wholly inside the removed [10,20); {60,65} shifts left by
	// the 15 samples removed before it.
	want := []interval.Span{{Start: 5, End: 8}, {Start: 45, End: 50}}
	if !reflect.DeepEqual(got.Spans, want) {
		t.Errorf("Spans = %v, want %v", got.Spans, want)
	}
	if len(got.Dropped) != 1 {
		t.Fatalf("Dropped = %v, want one entry", got.Dropped)
	}
	if got.Dropped[0].Span != (interval.Span{Start: 12, End: 17}) {
		t.Errorf("dropped span = %v, want {12 17}", got.Dropped[0].Span)
	}
	if got.Dropped[0].Reason == "" {
		t.Error("dropped span has no reason")
	}
}

func TestProjectSameStageIsIdentity(t *testing.T) {
	chain := projectorChain(t)
	spans := []interval.Span{{Start: 3, End: 7}, {Start: 20, End: 25}}
	d := Detection{Name: "m", Stage: "start", Spans: spans}
	got, err := NewProjector(chain).Project(d, "start")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Spans, spans) {
		t.Errorf("Spans = %v, want %v", got.Spans, spans)
	}
}

func TestProjectBackwardWidening(t *testing.T) {
	chain := projectorChain(t)
	tests := []struct {
		name string
		in   []interval.Span
		want []interval.Span
	}{
		{
			// Straddles the seam where [10,20) was removed: the single
			// outward span swallows the whole gap.
			"straddling span swallows gap",
			[]interval.Span{{Start: 8, End: 12}},
			[]interval.Span{{Start: 8, End: 22}},
		},
		{
			// Ends exactly at the seam: nothing straddled, no widening.
			"abutting span does not widen",
			[]interval.Span{{Start: 8, End: 10}},
			[]interval.Span{{Start: 8, End: 10}},
		},
		{
			"separate fragments stay separate",
			[]interval.Span{{Start: 2, End: 4}, {Start: 30, End: 33}},
			[]interval.Span{{Start: 2, End: 4}, {Start: 40, End: 43}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Detection{Name: "m", Stage: "start", Spans: tt.in}
			got, err := NewProjector(chain).Project(d, OriginalStage)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got.Spans, tt.want) {
				t.Errorf("Spans = %v, want %v", got.Spans, tt.want)
			}
		})
	}
}

func TestProjectUnknownTarget(t *testing.T) {
	chain := projectorChain(t)
	d := Detection{Name: "m", Stage: "start", Spans: []interval.Span{{Start: 1, End: 2}}}
	if _, err := NewProjector(chain).Project(d, "never_committed"); err == nil {
		t.Fatal("expected error for unknown target stage")
	}
}

func TestProjectAll(t *testing.T) {
	chain := projectorChain(t)
	detections := []Detection{
		{Name: "outliers", Stage: "start", Spans: []interval.Span{{Start: 30, End: 35}}},
		{Name: "motions", Stage: "no_outliers", Spans: []interval.Span{{Start: 40, End: 44}}},
	}
	targets := []string{OriginalStage, "start"}
	all, err := NewProjector(chain).ProjectAll(detections, targets)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("detections in output = %d, want 2", len(all))
	}
	for _, d := range detections {
		byTarget, ok := all[d.Name]
		if !ok {
			t.Fatalf("missing detection %q", d.Name)
		}
		for _, target := range targets {
			proj, ok := byTarget[target]
			if !ok {
				t.Fatalf("missing target %q for %q", target, d.Name)
			}
			if proj.Target != target {
				t.Errorf("Target = %q, want %q", proj.Target, target)
			}
			if len(proj.Spans) == 0 {
				t.Errorf("%s on %s projected to nothing", d.Name, target)
			}
		}
	}

	// Spot-check one value: outliers {30,35} on start -> original crosses no
	// removed material before index 50, shifting right by the 10 samples of
	// the first gap.
	got := all["outliers"][OriginalStage].Spans
	want := []interval.Span{{Start: 40, End: 45}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("outliers on original = %v, want %v", got, want)
	}
}
