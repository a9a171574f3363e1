package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/config"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/services"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authService *services.AdminAuthService,
	healthHandler *handlers.HealthHandler,
	configHandler *handlers.ConfigHandler,
	boardHandler *handlers.BoardHandler,
	moderationHandler *handlers.ModerationHandler,
	authHandler *handlers.AuthHandler,
) {
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)
	api.Get("/config", configHandler.Get)

	// Public wall. Posting and reacting need the client token.
	api.Get("/confessions", boardHandler.Feed)
	api.Post("/confessions", middleware.ClientIDRequired(), boardHandler.CreateConfession)
	api.Post("/confessions/:id/react", middleware.ClientIDRequired(), boardHandler.React)
	api.Post("/confessions/:id/report", boardHandler.Report)

	// Moderator login: stricter limit, 10 req/min per IP
	api.Post("/admin/session", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}), authHandler.AdminSession)

	// Moderation panel. The guard is applied per route so /admin/session stays open.
	adminOnly := middleware.AdminRequired(authService, cfg)
	api.Get("/admin/reports", adminOnly, moderationHandler.ListReports)
	api.Put("/admin/reports/review", adminOnly, moderationHandler.Review)
	api.Put("/admin/reports/resolve", adminOnly, moderationHandler.Resolve)
	api.Delete("/admin/confessions/:id", adminOnly, moderationHandler.DeleteConfession)
}
