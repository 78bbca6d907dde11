// Package filter provides the length-preserving band-pass and high-pass
// Butterworth filter applied between gap removal and detection. The filter
// is a cascade of second-order sections run forward and backward for zero
// phase shift; output length always equals input length, which is the only
// property the pipeline's index bookkeeping relies on.
package filter
