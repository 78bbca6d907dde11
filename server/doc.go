// Package server exposes pipeline runs over an HTTP API.
//
// POST /api/runs executes the denoising pipeline on a submitted signal and
// stores the result in memory; the remaining endpoints query stored runs:
// stage arrays, native detections, and projections onto any stage space.
// Stage arrays dropped by the retention policy answer 410 Gone.
package server
