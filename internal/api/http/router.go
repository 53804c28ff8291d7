package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-gateway/internal/api/http/handlers"
	"github.com/spec-kit/auth-gateway/internal/observability"
)

// AuthRouteConfig bundles dependencies for the authentication service routes.
type AuthRouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
}

// RegisterAuthRoutes wires the authentication service's HTTP routes.
func RegisterAuthRoutes(app *fiber.App, cfg AuthRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/authenticate", cfg.Auth.Authenticate)
	api.Post("/authorize", cfg.Auth.Authorize)
}

// IdentityRouteConfig bundles dependencies for the identity service routes.
type IdentityRouteConfig struct {
	Health   *handlers.HealthHandler
	Accounts *handlers.AccountsHandler
}

// RegisterIdentityRoutes wires the identity service's HTTP routes.
func RegisterIdentityRoutes(app *fiber.App, cfg IdentityRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	user := app.Group("/api/user")
	user.Get("/security/:email", cfg.Accounts.SecurityProfile)
	user.Get("/profile/:email", cfg.Accounts.Profile)
	user.Post("/new", cfg.Accounts.Register)
	user.Put("/update", cfg.Accounts.Update)
	user.Delete("/delete/:email", cfg.Accounts.Delete)
}

// RegisterMetricsRoute exposes counter snapshots.
func RegisterMetricsRoute(app *fiber.App, metrics *observability.Metrics) {
	app.Get("/metrics", func(c *fiber.Ctx) error {
		return c.JSON(metrics.Snapshot())
	})
}
