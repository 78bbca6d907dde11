package detect

// movingAvg computes a centered moving average with zero padding at the
// edges, matching a "same"-mode convolution with a box kernel of width win.
func movingAvg(x []float64, win int) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	prefix := make([]float64, n+1)
	for i, v := range x {
		prefix[i+1] = prefix[i] + v
	}
	offset := (win - 1) / 2
	for i := 0; i < n; i++ {
		hi := i + offset
		lo := hi - win + 1
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		out[i] = (prefix[hi+1] - prefix[lo]) / float64(win)
	}
	return out
}

// group turns a sorted list of hit indices into half-open spans of
// consecutive indices, each padded by pad on both sides and clipped to
// [0, n).
func group(hits []int, pad, n int) []span {
	if len(hits) == 0 {
		return nil
	}
	var out []span
	start, prev := hits[0], hits[0]
	flush := func() {
		s := start - pad
		if s < 0 {
			s = 0
		}
		e := prev + pad + 1
		if e > n {
			e = n
		}
		out = append(out, span{s, e})
	}
	for _, i := range hits[1:] {
		if i == prev+1 {
			prev = i
			continue
		}
		flush()
		start, prev = i, i
	}
	flush()
	return out
}

type span struct{ start, end int }
