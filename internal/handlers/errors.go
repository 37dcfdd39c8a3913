package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

func statusFor(err error) int {
	switch {
	case validation.IsValidationError(err),
		errors.Is(err, services.ErrInvalidExerciseOrder),
		errors.Is(err, services.ErrInvalidResetToken):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrExerciseNotFound),
		errors.Is(err, services.ErrRoutineNotFound),
		errors.Is(err, services.ErrWorkoutNotFound),
		errors.Is(err, services.ErrWorkoutExerciseNotFound),
		errors.Is(err, services.ErrSetNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrWorkoutFinished):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrGoogleNotConfigured):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes err as an ErrorResponse. Server errors are logged and replaced
// by fallback so internals never reach the client.
func fail(c *fiber.Ctx, err error, fallback string) error {
	code := statusFor(err)
	message := err.Error()
	if code >= fiber.StatusInternalServerError {
		userID, _ := identity.GetUserID(c)
		slog.Error(fallback,
			"error", err,
			"request_id", c.Locals("requestid"),
			"user_id", userID,
			"action", c.Method()+" "+c.Route().Path,
		)
		message = fallback
	}
	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Error: true, Message: services.ErrNotOwner.Error(),
	})
}
