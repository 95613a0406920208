package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/condoplex/tickets-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
}

// RegisterRoutes wires the probe routes. The business surface of this service
// is the message transport; HTTP carries health checks only.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
}
