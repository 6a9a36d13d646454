package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/submission-service/internal/api/http/handlers"
	"github.com/spec-kit/submission-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Metrics     *handlers.MetricsHandler
	Submissions *handlers.SubmissionsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/internal/metrics", cfg.Metrics.Show)
	}

	submissions := app.Group("/api/submissions", auth.RequireCredential())
	submissions.Post("/", cfg.Submissions.Create)
	submissions.Get("/", cfg.Submissions.List)
	submissions.Get("/task/:taskId", cfg.Submissions.ListByTask)
	submissions.Get("/:submissionId", cfg.Submissions.Get)
	submissions.Put("/:submissionId", cfg.Submissions.Update)
}
