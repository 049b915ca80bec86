package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Tickets       *handlers.TicketsHandler
	Users         *handlers.UsersHandler
	Notifications *handlers.NotificationsHandler
	Directory     *handlers.DirectoryHandler
	Stats         *handlers.StatsHandler
	Authenticator *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/verify", cfg.Auth.Verify)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)
	authGroup.Post("/change-password", cfg.Authenticator.Handle, cfg.Auth.ChangePassword)

	tickets := app.Group("/tickets", cfg.Authenticator.Handle)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id/assign", cfg.Tickets.Assign)
	tickets.Put("/:id/resolve", cfg.Tickets.Resolve)
	tickets.Delete("/:id", cfg.Tickets.Delete)

	users := app.Group("/users", cfg.Authenticator.Handle)
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Put("/:id/password", cfg.Users.ResetPassword)
	users.Delete("/:id", cfg.Users.Delete)

	notifications := app.Group("/notifications", cfg.Authenticator.Handle)
	notifications.Get("/", cfg.Notifications.List)
	notifications.Post("/", cfg.Notifications.Create)
	notifications.Put("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Put("/:id/read", cfg.Notifications.MarkRead)
	notifications.Delete("/:id", cfg.Notifications.Delete)

	app.Get("/roles", cfg.Authenticator.Handle, cfg.Directory.ListRoles)
	app.Post("/roles", cfg.Authenticator.Handle, cfg.Directory.CreateRole)
	app.Get("/directorates", cfg.Authenticator.Handle, cfg.Directory.ListDirectorates)
	app.Post("/directorates", cfg.Authenticator.Handle, cfg.Directory.CreateDirectorate)

	app.Get("/stats/resolution", cfg.Authenticator.Handle, cfg.Stats.Resolution)
}
