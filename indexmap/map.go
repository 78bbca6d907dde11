package indexmap

import (
	"fmt"
	"sort"

	"github.com/skillsenselab/ecgflow/errors"
	"github.com/skillsenselab/ecgflow/interval"
)

// Map describes one transformation between a parent index space of length
// ParentLen and a child space of length ChildLen = ParentLen minus the
// removed material. A Map is immutable after construction.
type Map struct {
	parentLen int
	childLen  int
	// removed spans, sorted and disjoint, in parent-space coordinates.
	removed []interval.Span
	// cum[i] is the total removed length strictly before removed[i];
	// cum[len(removed)] is the total removed length.
	cum []int
	// kept spans in parent space with their child-space start offsets,
	// for O(log g) child-to-parent lookups.
	kept []keptSpan
}

type keptSpan struct {
	parentStart int
	parentEnd   int // exclusive
	childStart  int
}

// New builds a Map from removed parent-space spans. The spans must be
// sorted, non-empty, disjoint, and within [0, parentLen); anything else
// fails with an INVALID_MAP error. Callers holding raw detector output
// should interval.Normalize it first.
func New(removed []interval.Span, parentLen int) (*Map, error) {
	if parentLen < 0 {
		return nil, errors.InvalidMap(fmt.Sprintf("negative parent length %d", parentLen))
	}
	prev := 0
	for i, s := range removed {
		switch {
		case s.Start >= s.End:
			return nil, errors.InvalidMap(fmt.Sprintf("empty span %v at %d", s, i)).WithDetail("index", i)
		case s.Start < prev:
			return nil, errors.InvalidMap(fmt.Sprintf("span %v at %d overlaps or is unsorted", s, i)).WithDetail("index", i)
		case s.End > parentLen:
			return nil, errors.InvalidMap(fmt.Sprintf("span %v at %d exceeds parent length %d", s, i, parentLen)).WithDetail("index", i)
		}
		prev = s.End
	}

	m := &Map{
		parentLen: parentLen,
		removed:   append([]interval.Span(nil), removed...),
		cum:       make([]int, len(removed)+1),
	}
	for i, s := range m.removed {
		m.cum[i+1] = m.cum[i] + s.Len()
	}
	m.childLen = parentLen - m.cum[len(m.removed)]

	childPos := 0
	for _, k := range interval.Invert(m.removed, parentLen) {
		m.kept = append(m.kept, keptSpan{parentStart: k.Start, parentEnd: k.End, childStart: childPos})
		childPos += k.Len()
	}
	return m, nil
}

// Identity returns the length-preserving map for a space of the given length.
func Identity(length int) *Map {
	m, err := New(nil, length)
	if err != nil {
		// New only fails on malformed spans or negative length.
		panic(err)
	}
	return m
}

// ParentLen returns the length of the parent index space.
func (m *Map) ParentLen() int { return m.parentLen }

// ChildLen returns the length of the child index space.
func (m *Map) ChildLen() int { return m.childLen }

// Removed returns the removed parent-space spans. The caller must not
// modify the returned slice.
func (m *Map) Removed() []interval.Span { return m.removed }

// IsIdentity reports whether the map removes nothing.
func (m *Map) IsIdentity() bool { return len(m.removed) == 0 }

// ToChild maps a kept parent-space index to its child-space index.
// ok is false if the index was removed or lies outside the parent space.
func (m *Map) ToChild(parent int) (child int, ok bool) {
	if parent < 0 || parent >= m.parentLen {
		return 0, false
	}
	// First removed span ending after parent.
	i := sort.Search(len(m.removed), func(i int) bool {
		return m.removed[i].End > parent
	})
	if i < len(m.removed) && m.removed[i].Start <= parent {
		return 0, false
	}
	return parent - m.cum[i], true
}

// ToParent maps a child-space index back to its parent-space index. The
// child space has no holes, so every index in [0, ChildLen) maps.
func (m *Map) ToParent(child int) (int, error) {
	if child < 0 || child >= m.childLen {
		return 0, errors.InvalidInput("child", fmt.Sprintf("index %d outside child space [0, %d)", child, m.childLen))
	}
	// Last kept span starting at or before child.
	i := sort.Search(len(m.kept), func(i int) bool {
		return m.kept[i].childStart > child
	}) - 1
	k := m.kept[i]
	return k.parentStart + (child - k.childStart), nil
}

// ToChildSpan projects a parent-space span into child space, clipping it
// to the kept material. Because the child space closes every removed gap,
// the surviving samples of one contiguous parent span are contiguous in
// child space: the result is empty (the span was wholly removed) or a
// single span. The slice form matches ToParentSpan's composition contract.
func (m *Map) ToChildSpan(s interval.Span) []interval.Span {
	if s.Start < 0 {
		s.Start = 0
	}
	if s.End > m.parentLen {
		s.End = m.parentLen
	}
	if s.IsEmpty() {
		return nil
	}

	lo, ok := m.nextKeptChild(s.Start)
	if !ok {
		return nil
	}
	hi, ok := m.prevKeptChild(s.End - 1)
	if !ok || hi < lo {
		return nil
	}
	return []interval.Span{{Start: lo, End: hi + 1}}
}

// ToParentSpan projects a child-space span back into parent space as the
// single bounding span [ToParent(Start), ToParent(End-1)+1). Removed
// material between the endpoints is swallowed into the result; see the
// package comment for why this outward policy is deliberate.
func (m *Map) ToParentSpan(s interval.Span) (interval.Span, error) {
	if s.IsEmpty() {
		return interval.Span{}, errors.InvalidInput("span", fmt.Sprintf("empty span %v", s))
	}
	start, err := m.ToParent(s.Start)
	if err != nil {
		return interval.Span{}, err
	}
	last, err := m.ToParent(s.End - 1)
	if err != nil {
		return interval.Span{}, err
	}
	return interval.Span{Start: start, End: last + 1}, nil
}

// nextKeptChild returns the child index of the first kept parent index >= p.
func (m *Map) nextKeptChild(p int) (int, bool) {
	i := sort.Search(len(m.kept), func(i int) bool {
		return m.kept[i].parentEnd > p
	})
	if i == len(m.kept) {
		return 0, false
	}
	k := m.kept[i]
	if p <= k.parentStart {
		return k.childStart, true
	}
	return k.childStart + (p - k.parentStart), true
}

// prevKeptChild returns the child index of the last kept parent index <= p.
func (m *Map) prevKeptChild(p int) (int, bool) {
	i := sort.Search(len(m.kept), func(i int) bool {
		return m.kept[i].parentStart > p
	}) - 1
	if i < 0 {
		return 0, false
	}
	k := m.kept[i]
	if p >= k.parentEnd {
		return k.childStart + (k.parentEnd - 1 - k.parentStart), true
	}
	return k.childStart + (p - k.parentStart), true
}
