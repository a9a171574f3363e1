package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/config"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/database"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/logging"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/profanity"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/ratelimit"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/routes"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/services"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/store"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/store/inmemory"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/store/postgres"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.AdminEnabled() && cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET is required when moderation is enabled")
		os.Exit(1)
	}
	if !cfg.AdminEnabled() {
		slog.Warn("ADMIN_TOKEN not set, moderation endpoints are disabled")
	}

	// Store
	var (
		boardStore   store.Store
		pgLogHandler *logging.PGHandler
		cleanupDone  = make(chan struct{})
	)
	switch cfg.Storage {
	case config.StorageMemory:
		var opts []inmemory.Option
		if cfg.PostingClosesAt != nil {
			opts = append(opts, inmemory.WithPostingDeadline(*cfg.PostingClosesAt))
		}
		boardStore = inmemory.New(opts...)
		slog.Warn("using in-memory store, data is lost on restart")
	case config.StoragePostgres:
		if cfg.DBPassword == "" {
			slog.Error("DB_PASSWORD environment variable is required")
			os.Exit(1)
		}
		if err := database.Connect(cfg); err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(database.DB, cfg.PostingClosesAt); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler = logging.AttachDB(database.DB)

		// Log cleanup (30-day retention)
		logging.StartCleanup(database.DB, cleanupDone)

		boardStore = postgres.New(database.DB)
	default:
		slog.Error("unknown STORAGE backend", "storage", cfg.Storage)
		os.Exit(1)
	}

	// Per-client submit interval, with idle entries swept every few minutes
	tracker := ratelimit.NewTracker(cfg.SubmitInterval)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := tracker.Cleanup(); n > 0 {
					slog.Debug("rate limit entries expired", "count", n)
				}
			case <-cleanupDone:
				return
			}
		}
	}()

	// Services
	boardService := services.NewBoardService(boardStore, profanity.Default(), tracker)
	moderationService := services.NewModerationService(boardStore)
	authService := services.NewAdminAuthService(cfg)

	// Handlers
	healthHandler := handlers.NewHealthHandler(boardService)
	configHandler := handlers.NewConfigHandler(cfg)
	boardHandler := handlers.NewBoardHandler(boardService)
	moderationHandler := handlers.NewModerationHandler(moderationService)
	authHandler := handlers.NewAuthHandler(authService)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    64 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(metrics.Middleware())
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, authService, healthHandler, configHandler, boardHandler, moderationHandler, authHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "storage", cfg.Storage)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	var logSink stopper
	if pgLogHandler != nil {
		logSink = pgLogHandler
	}
	drain(app, logSink, cleanupDone)
	sentry.Flush(2 * time.Second)

	// Close database connections
	if database.DB != nil {
		if sqlDB, err := database.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("database close error", "error", err)
			}
		}
	}

	slog.Info("server stopped")
}

type stopper interface {
	Stop()
}

// drain stops accepting requests and waits for in-flight ones, then stops the
// background jobs and flushes the log sink so errors logged while draining
// still reach system_logs.
func drain(app interface{ Shutdown() error }, logSink stopper, cleanupDone chan struct{}) {
	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	close(cleanupDone)
	if logSink != nil {
		logSink.Stop()
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
