package handlers

import (
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	user, err := h.authService.GetUser(c.UserContext(), userID)
	if err != nil {
		return fail(c, err, "Failed to fetch user")
	}

	return c.JSON(services.ToUserResponse(user))
}

func (h *UserHandler) ByEmail(c *fiber.Ctx) error {
	var req dto.UserByEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return badRequest(c, "Email is required")
	}

	user, err := h.authService.GetUserByEmail(c.UserContext(), req.Email)
	if err != nil {
		return fail(c, err, "Internal server error")
	}

	return c.JSON(services.ToUserResponse(user))
}
