// Package denoise assembles the canonical ECG denoising pipeline from
// configuration and reports its results.
//
// The stage sequence is fixed: gap removal, band-limiting filter (the
// reference "start" stage), then three detect-and-remove rounds for
// amplitude outliers, flat-line dropouts, and motion artifacts. Disabled
// sections degrade to identity stages so stage names stay stable across
// configurations.
package denoise
