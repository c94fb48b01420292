package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/catalog/component"
)

// Summary collects what the startup summary shows beyond what the
// registry reports: service identity, startup time and business wiring.
type Summary struct {
	serviceName     string
	version         string
	environment     string
	startupDuration time.Duration
	business        []BusinessComponentInfo
}

// BusinessComponentInfo is one business-layer piece (store, service, handler).
type BusinessComponentInfo struct {
	Name         string
	Type         string // "repository", "service", "handler"
	Dependencies []string
}

// NewSummary creates a summary for the named service.
func NewSummary(serviceName, version, environment string) *Summary {
	return &Summary{serviceName: serviceName, version: version, environment: environment}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackBusinessComponent records a business-layer component and what it uses.
func (s *Summary) TrackBusinessComponent(name, componentType string, dependencies ...string) {
	s.business = append(s.business, BusinessComponentInfo{
		Name:         name,
		Type:         componentType,
		Dependencies: dependencies,
	})
}

// Render writes the summary. Infrastructure, routes and live health are
// read from registry, which may be nil.
func (s *Summary) Render(ctx context.Context, w io.Writer, registry *component.Registry) {
	version := s.version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(w, "\n%s %s (%s) started in %.2fs\n", s.serviceName, version, s.environment, s.startupDuration.Seconds())

	var (
		infra  []component.Description
		routes []component.Route
		health []component.Health
	)
	if registry != nil {
		for _, c := range registry.All() {
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
		health = registry.HealthAll(ctx)
	}

	fmt.Fprintf(w, "\nInfrastructure\n")
	if len(infra) == 0 {
		fmt.Fprintf(w, "   %s No components registered\n", treePrefix(0, 1))
	}
	for i, d := range infra {
		details := d.Details
		if d.Port > 0 {
			details = fmt.Sprintf("%s (:%d)", details, d.Port)
		}
		fmt.Fprintf(w, "   %s [%s] %s: %s\n", treePrefix(i, len(infra)), d.Type, d.Name, details)
	}

	if len(s.business) > 0 {
		fmt.Fprintf(w, "\nBusiness Layer\n")
		for i, b := range s.business {
			deps := ""
			if len(b.Dependencies) > 0 {
				deps = " <- " + strings.Join(b.Dependencies, ", ")
			}
			fmt.Fprintf(w, "   %s [%s] %s%s\n", treePrefix(i, len(s.business)), b.Type, b.Name, deps)
		}
	}

	if len(routes) > 0 {
		fmt.Fprintf(w, "\nRoutes (%d)\n", len(routes))
		for i, r := range routes {
			fmt.Fprintf(w, "   %s %-7s %s -> %s\n", treePrefix(i, len(routes)), r.Method, r.Path, r.Handler)
		}
	}

	if len(health) > 0 {
		fmt.Fprintf(w, "\nHealth\n")
		healthy := 0
		for i, h := range health {
			msg := ""
			if h.Message != "" {
				msg = " - " + h.Message
			}
			if h.Status == component.StatusHealthy {
				healthy++
			}
			fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(health)), healthStatusIcon(h.Status), h.Name, h.Status, msg)
		}
		if healthy == len(health) {
			fmt.Fprintf(w, "\nAll components healthy (%d/%d)\n", healthy, len(health))
		} else {
			fmt.Fprintf(w, "\nSome components have issues (%d/%d healthy)\n", healthy, len(health))
		}
	}
	fmt.Fprintln(w)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
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
