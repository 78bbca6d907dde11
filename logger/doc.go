// Package logger wraps zerolog with the conventions used across ecgflow:
// component-tagged loggers, console or JSON output, and a small set of
// standard field keys for run, stage, and detection events.
package logger
