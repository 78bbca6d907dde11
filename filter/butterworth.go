package filter

import (
	"math"

	"github.com/skillsenselab/ecgflow/errors"
)

// Type selects the filter response.
type Type string

const (
	// TypeHighpass passes frequencies above LowCut.
	TypeHighpass Type = "highpass"
	// TypeBandpass passes frequencies between LowCut and HighCut.
	TypeBandpass Type = "bandpass"
)

// Params configures a Butterworth filter.
type Params struct {
	// Type is the response shape.
	Type Type
	// SampleRate is the signal sampling rate in Hz.
	SampleRate float64
	// LowCut is the lower corner frequency in Hz.
	LowCut float64
	// HighCut is the upper corner frequency in Hz (bandpass only).
	HighCut float64
	// Order is the filter order; even orders map directly onto biquad
	// sections, odd orders add a first-order section.
	Order int
}

// Filter is an immutable designed filter.
type Filter struct {
	sections []biquad
	poles    []onePole
}

// biquad is one normalized second-order section.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// onePole is a first-order section for odd filter orders.
type onePole struct {
	b0, b1 float64
	a1     float64
}

// New designs a Butterworth filter. The corner frequencies must lie
// strictly inside (0, SampleRate/2).
func New(p Params) (*Filter, error) {
	if p.SampleRate <= 0 {
		return nil, errors.InvalidInput("sample_rate", "must be positive")
	}
	if p.Order < 1 {
		return nil, errors.InvalidInput("order", "must be at least 1")
	}
	nyq := p.SampleRate / 2

	f := &Filter{}
	switch p.Type {
	case TypeHighpass:
		if p.LowCut <= 0 || p.LowCut >= nyq {
			return nil, errors.InvalidInput("low_cut", "must lie inside (0, nyquist)")
		}
		f.addCascade(p.Order, p.LowCut/p.SampleRate, true)
	case TypeBandpass:
		if p.LowCut <= 0 || p.HighCut <= p.LowCut || p.HighCut >= nyq {
			return nil, errors.InvalidInput("high_cut", "need 0 < low_cut < high_cut < nyquist")
		}
		// A band-pass of order N per edge: high-pass at the lower corner
		// cascaded with a low-pass at the upper corner.
		f.addCascade(p.Order, p.LowCut/p.SampleRate, true)
		f.addCascade(p.Order, p.HighCut/p.SampleRate, false)
	default:
		return nil, errors.InvalidInput("type", "unknown filter type")
	}
	return f, nil
}

// addCascade appends the sections of one Butterworth edge of the given
// order and normalized corner frequency (cycles per sample).
func (f *Filter) addCascade(order int, fc float64, highpass bool) {
	w0 := 2 * math.Pi * fc
	pairs := order / 2
	for k := 0; k < pairs; k++ {
		// Pole-pair Q values of the Butterworth prototype.
		theta := math.Pi * float64(2*k+1) / float64(2*order)
		q := 1 / (2 * math.Cos(theta))
		f.sections = append(f.sections, designBiquad(w0, q, highpass))
	}
	if order%2 == 1 {
		f.poles = append(f.poles, designOnePole(w0, highpass))
	}
}

func designBiquad(w0, q float64, highpass bool) biquad {
	cosw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a0 := 1 + alpha

	var b biquad
	if highpass {
		b.b0 = (1 + cosw) / 2 / a0
		b.b1 = -(1 + cosw) / a0
		b.b2 = b.b0
	} else {
		b.b0 = (1 - cosw) / 2 / a0
		b.b1 = (1 - cosw) / a0
		b.b2 = b.b0
	}
	b.a1 = -2 * cosw / a0
	b.a2 = (1 - alpha) / a0
	return b
}

func designOnePole(w0 float64, highpass bool) onePole {
	// Bilinear transform of the first-order prototype.
	k := math.Tan(w0 / 2)
	a0 := k + 1
	if highpass {
		return onePole{b0: 1 / a0, b1: -1 / a0, a1: (k - 1) / a0}
	}
	return onePole{b0: k / a0, b1: k / a0, a1: (k - 1) / a0}
}

// Apply runs the filter forward and backward over the signal, returning a
// new slice of identical length. Empty input returns an empty slice.
func (f *Filter) Apply(x []float64) []float64 {
	out := append([]float64(nil), x...)
	if len(out) == 0 {
		return out
	}
	f.pass(out)
	reverse(out)
	f.pass(out)
	reverse(out)
	return out
}

// pass runs every section over the buffer in place, forward direction.
func (f *Filter) pass(x []float64) {
	for _, s := range f.sections {
		var x1, x2, y1, y2 float64
		for i, v := range x {
			y := s.b0*v + s.b1*x1 + s.b2*x2 - s.a1*y1 - s.a2*y2
			x2, x1 = x1, v
			y2, y1 = y1, y
			x[i] = y
		}
	}
	for _, p := range f.poles {
		var x1, y1 float64
		for i, v := range x {
			y := p.b0*v + p.b1*x1 - p.a1*y1
			x1, y1 = v, y
			x[i] = y
		}
	}
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
