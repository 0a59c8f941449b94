package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	Tickets        *handlers.TicketsHandler
	Subtickets     *handlers.SubticketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/staff/login", cfg.Staff.Login)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("/", cfg.Tickets.Search)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Get("/:ref", cfg.Tickets.GetTicket)
	tickets.Patch("/:ref", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:ref", cfg.Tickets.DeleteTicket)

	tickets.Get("/:ref/parent", cfg.Subtickets.GetParent)
	tickets.Delete("/:ref/parent", cfg.Subtickets.UnlinkChild)
	tickets.Get("/:ref/children", cfg.Subtickets.GetList)
	tickets.Post("/:ref/children", cfg.Subtickets.CreateLink)
}
