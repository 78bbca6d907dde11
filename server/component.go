package server

import (
	"context"
	"sort"
	"strings"

	"github.com/skillsenselab/ecgflow/component"
)

const componentName = "http-server"

var (
	_ component.Component     = (*ServerComponent)(nil)
	_ component.Describable   = (*ServerComponent)(nil)
	_ component.RouteProvider = (*ServerComponent)(nil)
)

// ServerComponent wraps Server to implement component.Component so the
// bootstrap registry can manage its lifecycle.
type ServerComponent struct {
	server  *Server
	started bool
}

// NewComponent returns a lifecycle component backed by the given Server.
func NewComponent(s *Server) *ServerComponent {
	return &ServerComponent{server: s}
}

// Name returns the component name used for registration.
func (sc *ServerComponent) Name() string { return componentName }

// Start binds the listener and begins serving.
func (sc *ServerComponent) Start(ctx context.Context) error {
	if err := sc.server.Start(ctx); err != nil {
		return err
	}
	sc.started = true
	return nil
}

// Stop gracefully shuts the server down.
func (sc *ServerComponent) Stop(ctx context.Context) error {
	sc.started = false
	return sc.server.Stop(ctx)
}

// Health reports whether the server is serving.
func (sc *ServerComponent) Health(ctx context.Context) component.Health {
	if sc.started {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "listener not bound",
	}
}

// Describe returns summary info for the startup banner.
func (sc *ServerComponent) Describe() component.Description {
	cfg := sc.server.config
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: cfg.Addr(),
		Port:    cfg.Port,
	}
}

// Routes returns the registered HTTP routes, API routes first.
func (sc *ServerComponent) Routes() []component.Route {
	ginRoutes := sc.server.engine.Routes()

	sort.Slice(ginRoutes, func(i, j int) bool {
		iAPI := strings.HasPrefix(ginRoutes[i].Path, "/api/")
		jAPI := strings.HasPrefix(ginRoutes[j].Path, "/api/")
		if iAPI != jAPI {
			return iAPI
		}
		if ginRoutes[i].Path != ginRoutes[j].Path {
			return ginRoutes[i].Path < ginRoutes[j].Path
		}
		return ginRoutes[i].Method < ginRoutes[j].Method
	})

	routes := make([]component.Route, 0, len(ginRoutes))
	for _, r := range ginRoutes {
		routes = append(routes, component.Route{
			Method:  r.Method,
			Path:    r.Path,
			Handler: shortHandlerName(r.Handler),
		})
	}
	return routes
}

// shortHandlerName trims the package path and method suffix from a gin
// handler name like "github.com/x/server.(*RunService).createRun-fm".
func shortHandlerName(full string) string {
	name := full
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
