package handlers

import (
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ExerciseHandler struct {
	service *services.ExerciseService
}

func NewExerciseHandler(service *services.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{service: service}
}

// Create adds a catalog exercise. User-made exercises belong to the caller.
func (h *ExerciseHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.UserMade == nil {
		return badRequest(c, "userMade must be a boolean")
	}

	owner := ""
	if *req.UserMade {
		owner = userID
		if req.UserID != "" && req.UserID != userID {
			return forbidden(c)
		}
	}

	exercise, err := h.service.CreateExercise(c.UserContext(), req.Name, req.Muscle, req.Equipment, *req.UserMade, owner)
	if err != nil {
		return fail(c, err, "Failed to create exercise")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateExerciseResponse{Success: true, Exercise: exercise})
}

// List serves the query forms of the catalog: ?id=ID returns one exercise,
// ?default=true (or no query) the default catalog, and ?mine=true the
// defaults plus the caller's own exercises.
func (h *ExerciseHandler) List(c *fiber.Ctx) error {
	if id := c.Query("id"); id != "" {
		exercise, err := h.service.GetExerciseByID(c.UserContext(), id)
		if err != nil {
			return fail(c, err, "Failed to fetch exercise")
		}
		return c.JSON(exercise)
	}

	if c.QueryBool("mine") && !c.QueryBool("default") {
		userID, err := identity.GetUserID(c)
		if err != nil {
			return unauthorized(c)
		}
		exercises, err := h.service.GetExercisesForUser(c.UserContext(), userID)
		if err != nil {
			return fail(c, err, "Failed to fetch exercises")
		}
		return c.JSON(exercises)
	}

	exercises, err := h.service.GetAllDefaultExercises(c.UserContext())
	if err != nil {
		return fail(c, err, "Failed to fetch exercises")
	}
	return c.JSON(exercises)
}

func (h *ExerciseHandler) Get(c *fiber.Ctx) error {
	exercise, err := h.service.GetExerciseByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to fetch exercise")
	}
	return c.JSON(exercise)
}
