package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inquiry-service/internal/api/http/handlers"
	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profiles       *handlers.ProfilesHandler
	Inquiries      *handlers.InquiriesHandler
	FollowUps      *handlers.FollowUpsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Everything past login goes through the
// auth middleware; per-row authorization happens in the services.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.Metrics != nil {
		app.Get("/metrics", func(c *fiber.Ctx) error {
			requests, errors, denied := cfg.Metrics.Snapshot()
			return c.JSON(fiber.Map{
				"requests": requests,
				"errors":   errors,
				"denied":   denied,
			})
		})
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Post("/logout", cfg.Auth.Logout)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	profiles := app.Group("/profiles", cfg.AuthMiddleware.Handle)
	profiles.Post("", cfg.Profiles.Provision)
	profiles.Get("", cfg.Profiles.List)
	profiles.Get("/:id", cfg.Profiles.Get)
	profiles.Patch("/:id", cfg.Profiles.Update)
	profiles.Delete("/:id", cfg.Profiles.Delete)

	inquiries := app.Group("/inquiries", cfg.AuthMiddleware.Handle)
	inquiries.Post("", cfg.Inquiries.Create)
	inquiries.Get("", cfg.Inquiries.List)
	inquiries.Get("/:id", cfg.Inquiries.Get)
	inquiries.Patch("/:id", cfg.Inquiries.Update)
	inquiries.Delete("/:id", cfg.Inquiries.Delete)
	inquiries.Post("/:id/assign", cfg.Inquiries.Assign)
	inquiries.Post("/:id/follow-ups", cfg.FollowUps.Create)
	inquiries.Get("/:id/follow-ups", cfg.FollowUps.ListByInquiry)

	followUps := app.Group("/follow-ups", cfg.AuthMiddleware.Handle)
	followUps.Patch("/:id", cfg.FollowUps.Update)

	dashboard := app.Group("/dashboard", cfg.AuthMiddleware.Handle)
	dashboard.Get("/summary", cfg.Dashboard.Summary)
}
