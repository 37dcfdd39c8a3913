package handlers

import (
	"math"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type WorkoutHandler struct {
	service *services.WorkoutService
}

func NewWorkoutHandler(service *services.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{service: service}
}

func (h *WorkoutHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateWorkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.UserID == "" {
		req.UserID = userID
	}
	if req.UserID != userID {
		return forbidden(c)
	}

	workout, err := h.service.CreateWorkout(c.UserContext(), req.UserID, req.Name, req.Notes, req.RoutineID)
	if err != nil {
		return fail(c, err, "Failed to create workout")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateWorkoutResponse{Success: true, Workout: workout})
}

func (h *WorkoutHandler) Get(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	workout, err := h.service.GetWorkoutByID(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to fetch workout")
	}
	return c.JSON(workout)
}

// ListFinished returns the caller's finished workouts.
func (h *WorkoutHandler) ListFinished(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	workouts, err := h.service.ListFinishedWorkouts(c.UserContext(), userID)
	if err != nil {
		return fail(c, err, "Failed to fetch workouts")
	}
	return c.JSON(workouts)
}

func (h *WorkoutHandler) LatestUnfinished(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	workout, err := h.service.LatestUnfinishedWorkout(c.UserContext(), userID)
	if err != nil {
		return fail(c, err, "Failed to fetch workout")
	}
	return c.JSON(workout)
}

func (h *WorkoutHandler) AddExercises(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.AddExercisesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entries, err := h.service.AddExercises(c.UserContext(), userID, c.Params("id"), req.Exercises)
	if err != nil {
		return fail(c, err, "Failed to add exercises")
	}

	return c.JSON(dto.AddExercisesResponse{
		Message:   "Exercises added successfully",
		Exercises: entries,
	})
}

func (h *WorkoutHandler) RemoveExercise(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	workout, err := h.service.RemoveExercise(c.UserContext(), userID, c.Params("id"), c.Params("exerciseId"))
	if err != nil {
		return fail(c, err, "Failed to remove exercise")
	}
	return c.JSON(dto.WorkoutResponse{Message: "Exercise removed successfully", Workout: workout})
}

func (h *WorkoutHandler) AddSet(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.AddSetRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	reps, okReps := positiveInt(req.Reps)
	weight, okWeight := positiveInt(req.Weight)
	if !okReps || !okWeight {
		return badRequest(c, "Reps and weight must be positive integers")
	}

	set, err := h.service.AddSet(c.UserContext(), userID, c.Params("id"), c.Params("exerciseId"), reps, weight)
	if err != nil {
		return fail(c, err, "Failed to add set")
	}

	return c.JSON(dto.AddSetResponse{Message: "Set added successfully", Set: set})
}

func positiveInt(v *float64) (int, bool) {
	if v == nil || *v <= 0 || *v != math.Trunc(*v) || *v > math.MaxInt32 {
		return 0, false
	}
	return int(*v), true
}

func (h *WorkoutHandler) DeleteSet(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	workout, err := h.service.DeleteSet(c.UserContext(), userID, c.Params("id"), c.Params("exerciseId"), c.Params("setId"))
	if err != nil {
		return fail(c, err, "Failed to delete set")
	}
	return c.JSON(dto.WorkoutResponse{Message: "Set deleted successfully", Workout: workout})
}

func (h *WorkoutHandler) UpdateSet(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.UpdateSetRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Completed == nil {
		return badRequest(c, "Completed status must be a boolean")
	}

	set, err := h.service.SetCompleted(c.UserContext(), userID, c.Params("id"), c.Params("exerciseId"), c.Params("setId"), *req.Completed)
	if err != nil {
		return fail(c, err, "Failed to update set")
	}
	return c.JSON(dto.AddSetResponse{Message: "Set updated successfully", Set: set})
}

func (h *WorkoutHandler) Reorder(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.ReorderExercisesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	workout, err := h.service.ReorderExercises(c.UserContext(), userID, c.Params("id"), req.IDs())
	if err != nil {
		return fail(c, err, "Failed to reorder exercises")
	}
	return c.JSON(dto.WorkoutResponse{Message: "Exercises reordered successfully", Workout: workout})
}

func (h *WorkoutHandler) Finish(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	// An empty body means "compute the duration".
	var req dto.FinishWorkoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	workout, err := h.service.FinishWorkout(c.UserContext(), userID, c.Params("id"), req.Duration)
	if err != nil {
		return fail(c, err, "Failed to finish workout")
	}
	return c.JSON(dto.WorkoutResponse{Message: "Workout finished successfully", Workout: workout})
}

func (h *WorkoutHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.service.DeleteWorkout(c.UserContext(), userID, c.Params("id")); err != nil {
		return fail(c, err, "Failed to delete workout")
	}
	return c.JSON(dto.MessageResponse{Message: "Workout deleted successfully"})
}
