// Package errors provides the structured error type shared by the pipeline
// core and its HTTP surface. Errors carry a machine-readable code, a
// human-readable message, optional details, and an underlying cause that
// unwraps through the standard errors package.
package errors
