package interval

import "sort"

// Span is a half-open index interval [Start, End).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of indices covered by the span.
func (s Span) Len() int {
	if s.End <= s.Start {
		return 0
	}
	return s.End - s.Start
}

// IsEmpty reports whether the span covers no indices.
func (s Span) IsEmpty() bool { return s.End <= s.Start }

// Contains reports whether index i lies inside the span.
func (s Span) Contains(i int) bool { return i >= s.Start && i < s.End }

// Overlaps reports whether the two spans share at least one index.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// TotalLen returns the summed length of all spans.
func TotalLen(spans []Span) int {
	total := 0
	for _, s := range spans {
		total += s.Len()
	}
	return total
}

// Merge sorts spans by Start and coalesces every pair that overlaps or
// touches (next.Start <= cur.End). Empty spans are dropped. The input
// slice is not modified.
func Merge(spans []Span) []Span {
	return MergeGap(spans, 0)
}

// MergeGap merges like Merge but additionally coalesces spans separated
// by at most gap indices. Detectors use this to join hits that belong to
// the same physical event.
func MergeGap(spans []Span, gap int) []Span {
	xs := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start > s.End {
			s.Start, s.End = s.End, s.Start
		}
		if !s.IsEmpty() {
			xs = append(xs, s)
		}
	}
	if len(xs) == 0 {
		return nil
	}
	sort.Slice(xs, func(i, j int) bool {
		if xs[i].Start != xs[j].Start {
			return xs[i].Start < xs[j].Start
		}
		return xs[i].End < xs[j].End
	})

	out := xs[:1]
	for _, s := range xs[1:] {
		cur := &out[len(out)-1]
		if s.Start <= cur.End+gap {
			if s.End > cur.End {
				cur.End = s.End
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// Clamp restricts every span to [0, length), dropping spans that fall
// entirely outside.
func Clamp(spans []Span, length int) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 {
			s.Start = 0
		}
		if s.End > length {
			s.End = length
		}
		if !s.IsEmpty() {
			out = append(out, s)
		}
	}
	return out
}

// Normalize sorts, clamps to [0, length), and merges touching spans.
// This is the canonical form expected by the index-map builder; length < 0
// skips the clamping step.
func Normalize(spans []Span, length int) []Span {
	merged := Merge(spans)
	if length < 0 {
		return merged
	}
	return Clamp(merged, length)
}

// Invert returns the kept spans of [0, length) not covered by removed.
// The removed spans must already be normalized (sorted, disjoint, within
// bounds); use Normalize first if they may not be.
func Invert(removed []Span, length int) []Span {
	if length <= 0 {
		return nil
	}
	kept := make([]Span, 0, len(removed)+1)
	cur := 0
	for _, r := range removed {
		if cur < r.Start {
			kept = append(kept, Span{Start: cur, End: r.Start})
		}
		if r.End > cur {
			cur = r.End
		}
	}
	if cur < length {
		kept = append(kept, Span{Start: cur, End: length})
	}
	return kept
}
