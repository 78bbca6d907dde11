// Package pipeline drives a signal through an ordered sequence of stages
// while tracking how each stage re-indexes the samples it keeps.
//
// Three stage kinds exist:
//
//   - Transform: consumes the current array, returns a shorter (or equal)
//     array plus the removed spans; gap removal and every
//     artifact-removal step work this way.
//   - Filter: consumes the current array, returns a same-length array; an
//     identity index map is appended.
//   - Detect: reads the current array and reports raw fragments in its own
//     index space; the stage chain does not advance.
//
// The Context owns execution and the memory-lean retention policy: once a
// stage's array has been consumed it is released unless the stage is the
// original, the marked reference ("start"), the final stage, or named in
// the configured keep set. Released arrays are never resurrected; their
// index maps remain queryable forever through the Result.
//
// A run is strictly sequential per stage. Consecutive Detect specs may be
// executed concurrently against the same immutable array (they only read);
// their outputs are recorded in spec order so results never depend on
// completion order.
//
// Failures abort the run and surface as STAGE_FAILED errors; stages and
// maps committed before the failure remain valid on the returned partial
// Result. Nothing is retried.
package pipeline
