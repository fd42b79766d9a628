package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		return err
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		return err
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		return err
	}

	// System log handler (WARN+ async batch)
	dbLogHandler := logging.NewDBHandler(db, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout),
		dbLogHandler,
	)))

	cleanup, err := logging.StartCleanup(db, cfg.LogRetentionDays)
	if err != nil {
		slog.Error("log cleanup schedule failed", "error", err)
		return err
	}

	// Store and services
	st := store.New(db, store.NewFeed())

	var verifier services.IdentityVerifier
	var jwks *services.JWKSVerifier
	if cfg.FederatedJWKSURL != "" {
		jwks = services.NewJWKSVerifier(cfg.FederatedJWKSURL, cfg.FederatedIssuer, cfg.FederatedAudience)
		verifier = jwks
	}

	authService := services.NewAuthService(db, st, cfg, verifier)
	boardService := services.NewBoardService(st)
	ticketService := services.NewTicketService(st)
	invitationService := services.NewInvitationService(st)
	userService := services.NewUserService(st)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
			Release:          Version,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

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
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, st, routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Health:      handlers.NewHealthHandler(db),
		Boards:      handlers.NewBoardHandler(boardService),
		Tickets:     handlers.NewTicketHandler(ticketService),
		Invitations: handlers.NewInvitationHandler(invitationService),
		Users:       handlers.NewUserHandler(userService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "version", Version)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-quit:
		slog.Info("shutting down server...")
	case err = <-listenErr:
		slog.Error("server failed to start", "error", err)
	}

	if shutdownErr := app.ShutdownWithTimeout(10 * time.Second); shutdownErr != nil {
		slog.Error("server shutdown error", "error", shutdownErr)
	}

	<-cleanup.Stop().Done()
	if jwks != nil {
		jwks.Close()
	}
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if closeErr := database.Close(db); closeErr != nil {
		slog.Error("database close error", "error", closeErr)
	}

	slog.Info("server stopped")
	return err
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "request_id", c.Locals("requestid"), "error", err.Error())
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
