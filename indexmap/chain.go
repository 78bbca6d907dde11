package indexmap

import (
	"fmt"

	"github.com/skillsenselab/ecgflow/errors"
	"github.com/skillsenselab/ecgflow/interval"
)

// Chain composes Maps across named stages, rooted at the original signal.
// Position 0 is the root space; Append grows the chain one stage at a time
// and refuses maps whose parent length does not match the current tail.
type Chain struct {
	// names[i] is the stage owning space i; names[0] is the root.
	names []string
	// maps[i] transforms space i into space i+1.
	maps  []*Map
	index map[string]int
	// rootLen is the length of the root space.
	rootLen int
	// refPos is the position of the reference ("start") stage, -1 until
	// marked.
	refPos int
}

// NewChain creates a chain rooted at a stage with the given name and length.
func NewChain(rootName string, rootLen int) *Chain {
	return &Chain{
		names:   []string{rootName},
		index:   map[string]int{rootName: 0},
		rootLen: rootLen,
		refPos:  -1,
	}
}

// Append adds a named stage produced by applying m to the current tail
// space. It fails with CHAIN_MISMATCH if the lengths do not compose and
// with INVALID_INPUT if the name is empty or already present.
func (c *Chain) Append(name string, m *Map) error {
	if name == "" {
		return errors.InvalidInput("name", "stage name must not be empty")
	}
	if _, dup := c.index[name]; dup {
		return errors.InvalidInput("name", fmt.Sprintf("stage %q already in chain", name))
	}
	if m.ParentLen() != c.TailLen() {
		return errors.ChainMismatch(name, c.TailLen(), m.ParentLen())
	}
	c.index[name] = len(c.names)
	c.names = append(c.names, name)
	c.maps = append(c.maps, m)
	return nil
}

// MarkReference marks the named stage as the reference ("start") space
// that ProjectToStart targets.
func (c *Chain) MarkReference(name string) error {
	pos, ok := c.index[name]
	if !ok {
		return errors.UnknownStage(name)
	}
	c.refPos = pos
	return nil
}

// Reference returns the name of the reference stage, or "" if none is marked.
func (c *Chain) Reference() string {
	if c.refPos < 0 {
		return ""
	}
	return c.names[c.refPos]
}

// Root returns the name of the root stage.
func (c *Chain) Root() string { return c.names[0] }

// Stages returns the stage names in order, root first. The caller must not
// modify the returned slice.
func (c *Chain) Stages() []string { return c.names }

// Contains reports whether the chain has a stage with the given name.
func (c *Chain) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// TailLen returns the length of the most recently appended space.
func (c *Chain) TailLen() int {
	if len(c.maps) == 0 {
		return c.rootLen
	}
	return c.maps[len(c.maps)-1].ChildLen()
}

// Len returns the length of the named stage's space.
func (c *Chain) Len(name string) (int, error) {
	pos, ok := c.index[name]
	if !ok {
		return 0, errors.UnknownStage(name)
	}
	if pos == 0 {
		return c.rootLen, nil
	}
	return c.maps[pos-1].ChildLen(), nil
}

// MapInto returns the map producing the named stage from its parent, or
// nil for the root stage.
func (c *Chain) MapInto(name string) (*Map, error) {
	pos, ok := c.index[name]
	if !ok {
		return nil, errors.UnknownStage(name)
	}
	if pos == 0 {
		return nil, nil
	}
	return c.maps[pos-1], nil
}

// Project re-expresses a span from one named stage's space in another's.
//
// Descendant targets thread the span through each intervening map's
// ToChildSpan: the result may shrink or vanish (an empty slice, never a
// zero-length span) where intervening stages removed material.
//
// Ancestor targets thread through ToParentSpan in reverse order: the result
// is always exactly one span, widened outward across any removed material
// it straddles.
//
// Projecting a stage onto itself returns the span unchanged.
func (c *Chain) Project(s interval.Span, from, to string) ([]interval.Span, error) {
	f, ok := c.index[from]
	if !ok {
		return nil, errors.UnknownStage(from)
	}
	t, ok := c.index[to]
	if !ok {
		return nil, errors.UnknownStage(to)
	}
	if s.IsEmpty() {
		return nil, errors.InvalidInput("span", fmt.Sprintf("empty span %v", s))
	}

	if t >= f {
		return c.projectForward(s, f, t), nil
	}
	return c.projectBackward(s, f, t)
}

func (c *Chain) projectForward(s interval.Span, f, t int) []interval.Span {
	spans := []interval.Span{s}
	for i := f; i < t; i++ {
		var next []interval.Span
		for _, cur := range spans {
			next = append(next, c.maps[i].ToChildSpan(cur)...)
		}
		if len(next) == 0 {
			return nil
		}
		spans = next
	}
	return interval.Merge(spans)
}

func (c *Chain) projectBackward(s interval.Span, f, t int) ([]interval.Span, error) {
	cur := s
	for i := f - 1; i >= t; i-- {
		widened, err := c.maps[i].ToParentSpan(cur)
		if err != nil {
			return nil, err
		}
		cur = widened
	}
	return []interval.Span{cur}, nil
}

// ProjectToRoot projects a span from the named stage back to the root
// ("original") space. The result is always exactly one span.
func (c *Chain) ProjectToRoot(s interval.Span, from string) (interval.Span, error) {
	out, err := c.Project(s, from, c.names[0])
	if err != nil {
		return interval.Span{}, err
	}
	return out[0], nil
}

// ProjectToReference projects a span from the named stage into the
// reference ("start") space. Forward projections may return an empty
// slice where the span's material was removed before the reference stage.
func (c *Chain) ProjectToReference(s interval.Span, from string) ([]interval.Span, error) {
	if c.refPos < 0 {
		return nil, errors.UnknownStage("(reference)")
	}
	return c.Project(s, from, c.names[c.refPos])
}
