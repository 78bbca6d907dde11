package detect

import (
	"context"
	"math"
	"testing"
)

func TestOutliersFlagSpike(t *testing.T) {
	x := make([]float64, 200)
	for i := range x {
		x[i] = math.Sin(float64(i) / 5)
	}
	x[100] = 50 // gross spike

	fn := Outliers(OutlierParams{ZThresh: 3.5, MinLen: 8, MergeGap: 10})
	spans, err := fn(context.Background(), x)
	if err != nil {
		t.Fatal(err)
	}
	if len(spans) != 1 {
		t.Fatalf("spans = %v, want one span around index 100", spans)
	}
	if !spans[0].Contains(100) {
		t.Errorf("span %v does not contain the spike at 100", spans[0])
	}
}

func TestOutliersCleanSignal(t *testing.T) {
	x := make([]float64, 200)
	for i := range x {
		x[i] = math.Sin(float64(i) / 5)
	}
	fn := Outliers(OutlierParams{ZThresh: 3.5, MinLen: 8, MergeGap: 10})
	spans, err := fn(context.Background(), x)
	if err != nil {
		t.Fatal(err)
	}
	if len(spans) != 0 {
		t.Errorf("clean signal produced spans %v", spans)
	}
}

func TestOutliersEmptyInput(t *testing.T) {
	fn := Outliers(OutlierParams{ZThresh: 3.5, MinLen: 8})
	spans, err := fn(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if spans != nil {
		t.Errorf("spans = %v, want nil", spans)
	}
}

func TestRDropoutsFlagFlatRegion(t *testing.T) {
	x := make([]float64, 400)
	for i := range x {
		x[i] = math.Sin(float64(i) / 3)
	}
	for i := 200; i < 260; i++ {
		x[i] = 0.5 // flatline: variance collapses
	}

	fn := RDropouts(RDropoutParams{Win: 40, VarThresh: 1e-5, MergeGap: 10})
	spans, err := fn(context.Background(), x)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, s := range spans {
		if s.Contains(230) {
			found = true
		}
	}
	if !found {
		t.Errorf("spans %v do not cover the flat region", spans)
	}
}

func TestMotionsFlagHighDeviation(t *testing.T) {
	x := make([]float64, 400)
	for i := range x {
		x[i] = 0.01 * math.Sin(float64(i)/3)
	}
	for i := 150; i < 200; i++ {
		// Large alternating swings mimic electrode motion.
		if i%2 == 0 {
			x[i] = 2
		} else {
			x[i] = -2
		}
	}

	fn := Motions(MotionParams{Win: 20, StdThresh: 0.15, MergeGap: 10})
	spans, err := fn(context.Background(), x)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, s := range spans {
		if s.Contains(175) {
			found = true
		}
	}
	if !found {
		t.Errorf("spans %v do not cover the motion burst", spans)
	}
}

func TestMovingAvgBoxKernel(t *testing.T) {
	x := []float64{1, 1, 1, 1, 1}
	got := movingAvg(x, 3)
	// Zero padding attenuates the edges: [2/3, 1, 1, 1, 2/3].
	want := []float64{2.0 / 3, 1, 1, 1, 2.0 / 3}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("movingAvg[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestGroupConsecutiveHits(t *testing.T) {
	spans := group([]int{5, 6, 7, 20}, 2, 100)
	if len(spans) != 2 {
		t.Fatalf("groups = %v, want 2", spans)
	}
	if spans[0].start != 3 || spans[0].end != 10 {
		t.Errorf("first group = %v, want {3 10}", spans[0])
	}
	if spans[1].start != 18 || spans[1].end != 23 {
		t.Errorf("second group = %v, want {18 23}", spans[1])
	}
}

func TestGroupClipsToBounds(t *testing.T) {
	spans := group([]int{0, 99}, 5, 100)
	if spans[0].start != 0 {
		t.Errorf("start = %d, want 0", spans[0].start)
	}
	if spans[len(spans)-1].end != 100 {
		t.Errorf("end = %d, want 100", spans[len(spans)-1].end)
	}
}
