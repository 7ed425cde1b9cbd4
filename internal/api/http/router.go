package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/resumekit/cv-service/internal/api/http/handlers"
	"github.com/resumekit/cv-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	CV     *handlers.CVHandler
	Pages  *handlers.PageHandler
	Gate   *auth.Gate
}

// RegisterRoutes wires HTTP routes. The gate runs for every request and
// decides from its route table which ones need a session; handlers below
// only check ownership.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gate.Handle)

	health := app.Group("/health")
	health.Get("/live", cfg.Health.Live)
	health.Get("/ready", cfg.Health.Ready)
	health.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Auth.Me)

	cv := api.Group("/cv")
	cv.Get("/", cfg.CV.GetOwn)
	cv.Post("/", cfg.CV.SaveOwn)
	cv.Post("/share", cfg.CV.Share)
	cv.Get("/:id", cfg.CV.Get)
	cv.Delete("/:id", cfg.CV.Delete)

	app.Get("/login", cfg.Pages.Login)
	app.Get("/cv", cfg.Pages.OwnCV)
	app.Get("/cv/:id", cfg.Pages.PublicCV)
}
