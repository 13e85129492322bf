package bootstrap

import (
	"context"
	"time"

	"github.com/kbukum/voicelens/component"
)

// RouteLister is implemented by components that serve HTTP routes.
type RouteLister interface {
	Routes() []string
}

// logSummary writes one line per component and one line listing routes.
func (a *App[C]) logSummary(ctx context.Context, elapsed time.Duration) {
	healths := a.Components.HealthAll(ctx)
	for _, h := range healths {
		fields := map[string]interface{}{
			"component": h.Name,
			"status":    string(h.Status),
		}
		if h.Message != "" {
			fields["detail"] = h.Message
		}
		a.Logger.Debug("component status", fields)
	}

	var routes []string
	for _, c := range a.Components.All() {
		if rl, ok := c.(RouteLister); ok {
			routes = append(routes, rl.Routes()...)
		}
	}

	a.Logger.Info("Startup complete", map[string]interface{}{
		"name":       a.Name,
		"version":    a.Version,
		"components": len(healths),
		"health":     string(component.Overall(healths)),
		"routes":     routes,
		"startup_ms": elapsed.Milliseconds(),
	})
}
