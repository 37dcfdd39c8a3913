package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Health   *handlers.HealthHandler
	Exercise *handlers.ExerciseHandler
	Routine  *handlers.RoutineHandler
	Workout  *handlers.WorkoutHandler
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/google", h.Auth.GoogleSignIn)
	auth.Post("/forgot-password", h.Auth.ForgotPassword)
	auth.Post("/reset-password", h.Auth.ResetPassword)

	// JWT is attached per route so it never runs for the public routes above.
	protect := middleware.JWTProtected(cfg)
	admin := middleware.AdminRequired(db, cfg)

	api.Post("/auth/logout", protect, h.Auth.Logout)

	api.Get("/users/me", protect, h.User.Me)
	api.Post("/users/by-email", protect, h.User.ByEmail)

	api.Post("/exercises", protect, h.Exercise.Create)
	api.Get("/exercises", protect, h.Exercise.List)
	api.Get("/exercises/:id", protect, h.Exercise.Get)

	api.Post("/routines", protect, h.Routine.Create)
	api.Get("/routines", protect, admin, h.Routine.ListAll)
	api.Get("/routines/users/:id", protect, middleware.SelfOrAdmin(db, cfg, "id"), h.Routine.ListByUser)
	api.Get("/routines/:id", protect, h.Routine.Get)
	api.Patch("/routines/:id", protect, h.Routine.Update)
	api.Delete("/routines/:id", protect, h.Routine.Delete)

	api.Post("/workouts", protect, h.Workout.Create)
	api.Get("/workouts/user", protect, h.Workout.ListFinished)
	api.Get("/workouts/latest-unfinished", protect, h.Workout.LatestUnfinished)
	api.Get("/workouts/unfinished", protect, h.Workout.LatestUnfinished)
	api.Get("/workouts/:id", protect, h.Workout.Get)
	api.Delete("/workouts/:id", protect, h.Workout.Delete)
	api.Post("/workouts/:id/addExercises", protect, h.Workout.AddExercises)
	api.Patch("/workouts/:id/reorder-exercises", protect, h.Workout.Reorder)
	api.Patch("/workouts/:id/finish", protect, h.Workout.Finish)
	api.Delete("/workouts/:id/exercises/:exerciseId", protect, h.Workout.RemoveExercise)
	api.Post("/workouts/:id/exercises/:exerciseId/sets", protect, h.Workout.AddSet)
	api.Patch("/workouts/:id/exercises/:exerciseId/sets/:setId", protect, h.Workout.UpdateSet)
	api.Delete("/workouts/:id/exercises/:exerciseId/sets/:setId", protect, h.Workout.DeleteSet)
}
