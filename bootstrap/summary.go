package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/skillsenselab/ecgflow/component"
)

// Summary collects and prints the startup banner. Infrastructure details,
// routes, and health are pulled live from the component registry, so
// components self-report via the Describable and RouteProvider interfaces.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
}

// NewSummary creates a startup summary for the named service.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Display prints the startup banner with infrastructure, routes, and live
// health gathered from the registry.
func (s *Summary) Display(registry *component.Registry) {
	fmt.Printf("\n🚀 %s v%s started in %.2fs\n\n",
		s.serviceName, s.version, s.startupDuration.Seconds())

	if registry == nil {
		return
	}
	components := registry.All()

	var infra []component.Description
	var routes []component.Route
	for _, c := range components {
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			if desc.Name == "" {
				desc.Name = c.Name()
			}
			infra = append(infra, desc)
		}
		if rp, ok := c.(component.RouteProvider); ok {
			routes = append(routes, rp.Routes()...)
		}
	}

	if len(infra) > 0 {
		fmt.Printf("📊 Infrastructure\n")
		for i, d := range infra {
			details := d.Details
			if d.Port > 0 {
				details = fmt.Sprintf("%s (:%d)", details, d.Port)
			}
			fmt.Printf("   %s %s: %s\n", treePrefix(i, len(infra)), d.Name, details)
		}
		fmt.Printf("\n")
	}

	if len(routes) > 0 {
		fmt.Printf("🌐 Routes (%d)\n", len(routes))
		for i, r := range routes {
			fmt.Printf("   %s %-7s %s → %s\n", treePrefix(i, len(routes)), r.Method, r.Path, r.Handler)
		}
		fmt.Printf("\n")
	}

	health := registry.HealthAll(context.Background())
	if len(health) > 0 {
		fmt.Printf("🏥 Health\n")
		for i, h := range health {
			msg := ""
			if h.Message != "" {
				msg = " - " + h.Message
			}
			fmt.Printf("   %s %s %s: %s%s\n",
				treePrefix(i, len(health)), healthIcon(h.Status), h.Name,
				strings.ToLower(string(h.Status)), msg)
		}
		fmt.Printf("\n")
	}
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
