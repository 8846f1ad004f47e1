package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/wellness-service/internal/api/http/handlers"
	"github.com/spec-kit/wellness-service/internal/auth"
	"github.com/spec-kit/wellness-service/internal/domain"
	"github.com/spec-kit/wellness-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Articles       *handlers.ArticlesHandler
	Consultations  *handlers.ConsultationsHandler
	Goals          *handlers.GoalsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// NewApp builds a fiber app with the global middleware chain installed.
func NewApp(appName string, logger *zap.Logger, metrics *observability.Metrics, cfg MiddlewareConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: ErrorHandler(logger, metrics),
	})
	RegisterMiddlewares(app, logger, metrics, cfg)
	return app
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Banner)
	app.Get("/health", cfg.Health.Health)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")
	protect := cfg.AuthMiddleware.Handle
	privileged := auth.RequireRole(domain.RoleAdmin, domain.RoleDietician)

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", protect, cfg.Auth.Me)
	authGroup.Put("/profile", protect, cfg.Auth.UpdateProfile)

	articles := api.Group("/articles")
	articles.Get("/", cfg.Articles.List)
	articles.Get("/featured", cfg.Articles.Featured)
	articles.Get("/:id", cfg.AuthMiddleware.Optional, cfg.Articles.Get)
	articles.Post("/", protect, privileged, cfg.Articles.Create)
	articles.Put("/:id", protect, privileged, cfg.Articles.Update)
	articles.Delete("/:id", protect, auth.RequireRole(domain.RoleAdmin), cfg.Articles.Delete)

	consultations := api.Group("/consultations", protect)
	consultations.Post("/", cfg.Consultations.Book)
	consultations.Get("/", cfg.Consultations.ListMine)
	consultations.Get("/all", privileged, cfg.Consultations.ListAll)
	consultations.Get("/:id", cfg.Consultations.Get)
	consultations.Put("/:id", cfg.Consultations.Update)
	consultations.Delete("/:id", cfg.Consultations.Delete)

	goals := api.Group("/goals", protect)
	goals.Post("/", cfg.Goals.Create)
	goals.Get("/", cfg.Goals.List)
	goals.Get("/stats", cfg.Goals.Stats)
	goals.Get("/:id", cfg.Goals.Get)
	goals.Put("/:id", cfg.Goals.Update)
	goals.Delete("/:id", cfg.Goals.Delete)
}
