// Package indexmap tracks how sample removal re-indexes a signal.
//
// A Map records one length-changing transformation between a parent index
// space and a child index space as the ordered set of removed parent-space
// spans. It projects points and spans in both directions in O(log g) per
// point, g being the number of removed spans, so intermediate arrays can
// be discarded while their index bookkeeping survives.
//
// A Chain composes Maps across named pipeline stages, rooted at the
// original signal. Forward projection (ancestor to descendant) may shrink,
// split, or drop a span as it crosses removal stages; backward projection
// (descendant to ancestor) always yields exactly one span per input and
// never shrinks it. Backward projection is deliberately lossy in one way:
// a child-space span whose parent-space samples straddle removed material
// is reported as the single bounding parent span, hole included, because
// report consumers want one bounding interval per detected event rather
// than a sparse shattering.
package indexmap
