// Package detect provides the built-in artifact detectors: amplitude
// outliers by z-score, R-dropouts by rolling variance collapse, and motion
// artifacts by rolling deviation. Each constructor returns a
// pipeline.DetectFunc reporting raw half-open spans in the index space of
// the array it ran against; the pipeline merges raw hits on ingestion.
//
// The heuristics are deliberately simple and fully replaceable: any
// function matching the detector contract can stand in for them.
package detect
