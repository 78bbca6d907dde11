// Package component defines the lifecycle contract for the long-running
// parts of the service: the HTTP API server and the OTLP trace and metric
// exporters. A Registry starts components in registration order, stops them
// in reverse, and aggregates their health for readiness checks.
package component
