package detect

import (
	"context"
	"math"

	"github.com/skillsenselab/ecgflow/interval"
	"github.com/skillsenselab/ecgflow/pipeline"
)

// OutlierParams tunes the z-score amplitude outlier detector.
type OutlierParams struct {
	// ZThresh is the absolute z-score above which a sample is a hit.
	ZThresh float64
	// MinLen is the span each hit is expanded to, in samples.
	MinLen int
	// MergeGap joins hit spans closer than this many samples.
	MergeGap int
}

// Outliers detects amplitude outliers: samples whose z-score against the
// whole array exceeds ZThresh, each expanded to at least MinLen samples.
func Outliers(p OutlierParams) pipeline.DetectFunc {
	return func(_ context.Context, x []float64) ([]interval.Span, error) {
		if len(x) == 0 {
			return nil, nil
		}
		mu, sd := meanStd(x)
		sd += 1e-12
		var hits []int
		for i, v := range x {
			if math.Abs((v-mu)/sd) > p.ZThresh {
				hits = append(hits, i)
			}
		}
		half := p.MinLen / 2
		if half < 1 {
			half = 1
		}
		return toSpans(group(hits, half, len(x)), p.MergeGap), nil
	}
}

// RDropoutParams tunes the R-dropout detector.
type RDropoutParams struct {
	// Win is the rolling window width in samples.
	Win int
	// VarThresh is the rolling variance below which the signal is
	// considered flat, indicating a potential dropout.
	VarThresh float64
	// MergeGap joins hit spans closer than this many samples.
	MergeGap int
}

// RDropouts detects R-wave dropouts as windows where the rolling variance
// collapses below VarThresh.
func RDropouts(p RDropoutParams) pipeline.DetectFunc {
	return func(_ context.Context, x []float64) ([]interval.Span, error) {
		if len(x) == 0 {
			return nil, nil
		}
		win := p.Win
		if win < 2 {
			win = 2
		}
		x2 := make([]float64, len(x))
		for i, v := range x {
			x2[i] = v * v
		}
		mean := movingAvg(x, win)
		mean2 := movingAvg(x2, win)
		var hits []int
		for i := range x {
			if mean2[i]-mean[i]*mean[i] < p.VarThresh {
				hits = append(hits, i)
			}
		}
		return toSpans(group(hits, win/2, len(x)), p.MergeGap), nil
	}
}

// MotionParams tunes the motion artifact detector.
type MotionParams struct {
	// Win is the rolling window width in samples.
	Win int
	// StdThresh is the rolling deviation above which the window is
	// considered motion-contaminated.
	StdThresh float64
	// MergeGap joins hit spans closer than this many samples.
	MergeGap int
}

// Motions detects motion artifacts as windows whose rolling absolute
// deviation (a cheap rolling-std approximation) exceeds StdThresh.
func Motions(p MotionParams) pipeline.DetectFunc {
	return func(_ context.Context, x []float64) ([]interval.Span, error) {
		if len(x) == 0 {
			return nil, nil
		}
		win := p.Win
		if win < 2 {
			win = 2
		}
		mean := movingAvg(x, win)
		dev := make([]float64, len(x))
		for i, v := range x {
			dev[i] = math.Abs(v - mean[i])
		}
		rstd := movingAvg(dev, win)
		var hits []int
		for i := range x {
			if rstd[i] > p.StdThresh {
				hits = append(hits, i)
			}
		}
		return toSpans(group(hits, win/2, len(x)), p.MergeGap), nil
	}
}

func meanStd(x []float64) (mean, std float64) {
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	for _, v := range x {
		d := v - mean
		std += d * d
	}
	return mean, math.Sqrt(std / float64(len(x)))
}

func toSpans(spans []span, mergeGap int) []interval.Span {
	if len(spans) == 0 {
		return nil
	}
	out := make([]interval.Span, len(spans))
	for i, s := range spans {
		out[i] = interval.Span{Start: s.start, End: s.end}
	}
	return interval.MergeGap(out, mergeGap)
}
