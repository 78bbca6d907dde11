package pipeline

import (
	"github.com/skillsenselab/ecgflow/errors"
)

// Stage is one committed point of a run: a name, a length, and the array
// the stage produced, until the retention policy releases it. Stages are
// immutable once produced; release is the only state change and it is
// one-way.
type Stage struct {
	name     string
	kind     Kind
	length   int
	signal   []float64
	released bool
}

// Name returns the stage name.
func (s *Stage) Name() string { return s.name }

// Kind returns the stage kind.
func (s *Stage) Kind() Kind { return s.kind }

// Len returns the stage's array length. It stays valid after release.
func (s *Stage) Len() int { return s.length }

// Released reports whether the retention policy dropped the array.
func (s *Stage) Released() bool { return s.released }

// Signal returns the stage's array, or a RELEASED_STAGE error if the
// retention policy already dropped it. The caller must not modify the
// returned slice.
func (s *Stage) Signal() ([]float64, error) {
	if s.released {
		return nil, errors.ReleasedStage(s.name)
	}
	return s.signal, nil
}

// release drops the array reference. The length and index map outlive it.
func (s *Stage) release() {
	s.signal = nil
	s.released = true
}
