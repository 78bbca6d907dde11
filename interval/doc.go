// Package interval provides half-open integer index intervals and the
// set operations the pipeline needs: normalization, gap-tolerant merging,
// clamping to a signal length, and inversion of removed intervals into
// kept intervals.
//
// All intervals are half-open [Start, End) in the index space of whichever
// pipeline stage produced them. An interval with Start >= End is empty.
package interval
