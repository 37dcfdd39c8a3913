package handlers

import (
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RoutineHandler struct {
	service *services.RoutineService
}

func NewRoutineHandler(service *services.RoutineService) *RoutineHandler {
	return &RoutineHandler{service: service}
}

func (h *RoutineHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateRoutineRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.UserID == "" {
		req.UserID = userID
	}
	if req.UserID != userID {
		return forbidden(c)
	}

	routine, err := h.service.CreateRoutine(c.UserContext(), req.Name, req.UserID, req.Exercises)
	if err != nil {
		return fail(c, err, "Failed to create routine")
	}

	return c.Status(fiber.StatusCreated).JSON(routine)
}

// ListAll is admin-only.
func (h *RoutineHandler) ListAll(c *fiber.Ctx) error {
	routines, err := h.service.GetAllRoutines(c.UserContext())
	if err != nil {
		return fail(c, err, "Failed to fetch routines")
	}
	return c.JSON(routines)
}

func (h *RoutineHandler) ListByUser(c *fiber.Ctx) error {
	routines, err := h.service.GetRoutinesByUserID(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to fetch routines")
	}
	return c.JSON(routines)
}

func (h *RoutineHandler) Get(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	routine, err := h.service.GetRoutineByID(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to fetch routine")
	}
	return c.JSON(routine)
}

func (h *RoutineHandler) Update(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.UpdateRoutineRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	routine, err := h.service.UpdateRoutine(c.UserContext(), userID, c.Params("id"), req)
	if err != nil {
		return fail(c, err, "Failed to update routine")
	}
	return c.JSON(routine)
}

func (h *RoutineHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	routine, err := h.service.DeleteRoutineByID(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to delete routine")
	}
	return c.JSON(fiber.Map{"deleted": true, "routine": routine})
}
