package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-dashboard/internal/auth"
	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Dashboard      *handlers.DashboardHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/stats", cfg.Health.Stats)

	board := app.Group("/dashboard", cfg.AuthMiddleware.Handle)
	board.Get("/tickets", cfg.Dashboard.ListTickets)
	board.Post("/tickets", cfg.Dashboard.CreateTicket)
	board.Get("/tickets/:id", cfg.Dashboard.GetTicket)
	board.Get("/tickets/:id/candidates", auth.RequireStaff(), cfg.Dashboard.Candidates)
	board.Post("/tickets/:id/assign", cfg.Dashboard.Assign)
	board.Post("/tickets/:id/reassign", cfg.Dashboard.Reassign)
	board.Post("/tickets/:id/escalate", cfg.Dashboard.Escalate)
	board.Post("/tickets/:id/close", cfg.Dashboard.Close)
	board.Post("/tickets/:id/reopen", cfg.Dashboard.Reopen)
	board.Post("/tickets/:id/validate", cfg.Dashboard.Validate)
	board.Post("/tickets/:id/feedback", cfg.Dashboard.Feedback)
	board.Post("/tickets/:id/take-charge", auth.RequireRole(domain.RoleTechnician), cfg.Dashboard.TakeCharge)
	board.Post("/tickets/:id/resolve", auth.RequireRole(domain.RoleTechnician), cfg.Dashboard.Resolve)
	board.Get("/tickets/:id/comments", cfg.Dashboard.Comments)
	board.Post("/tickets/:id/comments", auth.RequireRole(domain.RoleTechnician), cfg.Dashboard.AddComment)

	board.Get("/summary", cfg.Dashboard.Summary)
	board.Get("/metrics", cfg.Dashboard.Metrics)
	board.Get("/metrics/export", cfg.Dashboard.ExportMetrics)
	board.Post("/refresh", cfg.Dashboard.Refresh)
	board.Get("/state", cfg.Dashboard.GetState)
	board.Put("/state", cfg.Dashboard.UpdateState)

	board.Get("/notifications", cfg.Dashboard.Notifications)
	board.Post("/notifications/read-all", cfg.Dashboard.MarkAllNotificationsRead)
	board.Post("/notifications/:id/read", cfg.Dashboard.MarkNotificationRead)

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	reports.Post("/", cfg.Reports.Create)
	reports.Get("/", cfg.Reports.List)
	reports.Get("/:id", cfg.Reports.Get)
	reports.Get("/:id/export", cfg.Reports.Export)
}
