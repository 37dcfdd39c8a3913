package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/seed"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := openDatabase()
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		_ = database.Close(db)
		return errors.New("JWT_SECRET environment variable is required")
	}

	if withSeed, _ := cmd.Flags().GetBool("seed"); withSeed {
		if _, err := seed.Exercises(cmd.Context(), db); err != nil {
			_ = database.Close(db)
			return fmt.Errorf("seed failed: %w", err)
		}
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.Install(db)

	// Log and token cleanup
	cleanupDone := make(chan struct{})
	cleanupExited := logging.StartCleanup(db, cfg.LogRetention, time.Hour, cleanupDone)

	// Services
	authService := services.NewAuthService(db, cfg)
	resetService := services.NewPasswordResetService(db, cfg, services.NewMailer(cfg))
	exerciseService := services.NewExerciseService(db, cfg.StrictEmptyLookups)
	routineService := services.NewRoutineService(db, cfg.StrictEmptyLookups)
	workoutService := services.NewWorkoutService(db)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
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
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, db, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, resetService),
		User:     handlers.NewUserHandler(authService),
		Health:   handlers.NewHealthHandler(db),
		Exercise: handlers.NewExerciseHandler(exerciseService),
		Routine:  handlers.NewRoutineHandler(routineService),
		Workout:  handlers.NewWorkoutHandler(workoutService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	var runErr error
	select {
	case <-quit:
		slog.Info("shutting down server...")
	case err := <-listenErr:
		slog.Error("server failed to start", "error", err)
		runErr = err
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	<-cleanupExited
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
	return runErr
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"request_id", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}
