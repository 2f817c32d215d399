package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/careops/as-service/internal/api/http/handlers"
	"github.com/careops/as-service/internal/auth"
	"github.com/careops/as-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Imports        *handlers.ImportsHandler
	Delivery       *handlers.DeliveryHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/users", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.UserRoleAdmin), cfg.Users.Register)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireRole())

	tickets := api.Group("/after-service")
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/delivery/refresh", cfg.Delivery.RefreshTicket)

	// Bulk routes are staff-only; partner accounts never import.
	imports := api.Group("/after-service", auth.RequireRole(domain.UserRoleAdmin, domain.UserRoleAgent))
	imports.Post("/bulk", cfg.Imports.BulkImport)
	imports.Post("/upload", cfg.Imports.UploadWorkbook)

	api.Get("/delivery/track", cfg.Delivery.Track)
}
