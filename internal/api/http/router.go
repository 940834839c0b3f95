package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/incidentia/helpdesk/internal/api/http/handlers"
	"github.com/incidentia/helpdesk/internal/auth"
	"github.com/incidentia/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	Notifications  *handlers.NotificationsHandler
	Departments    *handlers.DepartmentsHandler
	Devices        *handlers.DevicesHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireRole(), cfg.Auth.ChangePassword)

	api := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)
	tickets.Get("/:id/history", cfg.Tickets.History)
	tickets.Post("/:id/comments", cfg.Comments.Create)
	tickets.Get("/:id/comments", cfg.Comments.List)

	notifications := api.Group("/notifications")
	notifications.Get("", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Patch("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Patch("/:id/read", cfg.Notifications.MarkRead)
	notifications.Delete("/:id", cfg.Notifications.Hide)

	adminOnly := auth.RequireRole(domain.UserRoleAdmin)

	departments := api.Group("/departments")
	departments.Get("", cfg.Departments.List)
	departments.Get("/:id", cfg.Departments.Get)
	departments.Post("", adminOnly, cfg.Departments.Create)
	departments.Put("/:id", adminOnly, cfg.Departments.Update)
	departments.Delete("/:id", adminOnly, cfg.Departments.Delete)

	deviceTypes := api.Group("/device-types")
	deviceTypes.Get("", cfg.Devices.ListDeviceTypes)
	deviceTypes.Get("/:id", cfg.Devices.GetDeviceType)
	deviceTypes.Post("", adminOnly, cfg.Devices.CreateDeviceType)
	deviceTypes.Put("/:id", adminOnly, cfg.Devices.UpdateDeviceType)
	deviceTypes.Delete("/:id", adminOnly, cfg.Devices.DeleteDeviceType)

	devices := api.Group("/devices")
	devices.Get("", cfg.Devices.ListDevices)
	devices.Get("/:id", cfg.Devices.GetDevice)
	devices.Post("", adminOnly, cfg.Devices.CreateDevice)
	devices.Put("/:id", adminOnly, cfg.Devices.UpdateDevice)
	devices.Delete("/:id", adminOnly, cfg.Devices.DeleteDevice)

	users := api.Group("/users")
	users.Get("/me", cfg.Users.Me)
	users.Get("", adminOnly, cfg.Users.List)
	users.Get("/:id", adminOnly, cfg.Users.Get)
	users.Patch("/:id", adminOnly, cfg.Users.Update)
}
