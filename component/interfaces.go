package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a single component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed piece of service infrastructure, such
// as the HTTP server or a telemetry exporter.
type Component interface {
	// Name returns the unique name used for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health reports the current health of the component.
	Health(ctx context.Context) Health
}

// Description summarizes a component for the startup banner.
type Description struct {
	// Name is the human-readable display name, e.g. "HTTP Server".
	// When empty the component's Name() is used.
	Name string
	// Type categorizes the component: "server", "telemetry".
	Type string
	// Details is a one-line human-readable summary, e.g. "0.0.0.0:8080".
	Details string
	// Port is the primary listen port, 0 if not applicable.
	Port int
}

// Describable is optionally implemented by components that want to appear
// in the startup summary with configuration details.
type Describable interface {
	Describe() Description
}

// Route holds a single HTTP route for the startup summary.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is optionally implemented by server components to report
// their registered HTTP routes.
type RouteProvider interface {
	Routes() []Route
}
