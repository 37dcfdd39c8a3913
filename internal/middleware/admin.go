package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminRequired lets a request through when any of these hold:
// 1. X-Admin-Token matches ADMIN_TOKEN
// 2. the caller's email or id is listed in ADMIN_EMAILS / ADMIN_USER_IDS
// 3. the caller's user row has role "admin"
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	check := newAdminCheck(db, cfg)

	return func(c *fiber.Ctx) error {
		if _, err := identity.GetUserID(c); err != nil && !check.hasToken(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if check.isAdmin(c) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

// SelfOrAdmin only allows requests whose :param matches the caller's id,
// unless the caller is an admin.
func SelfOrAdmin(db *gorm.DB, cfg *config.Config, param string) fiber.Handler {
	check := newAdminCheck(db, cfg)

	return func(c *fiber.Ctx) error {
		userID, err := identity.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if strings.EqualFold(c.Params(param), userID) || check.isAdmin(c) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "not allowed to access this resource",
		})
	}
}

type adminCheck struct {
	db      *gorm.DB
	token   string
	emails  []string
	userIDs []string
}

func newAdminCheck(db *gorm.DB, cfg *config.Config) *adminCheck {
	return &adminCheck{
		db:      db,
		token:   cfg.AdminToken,
		emails:  parseCSV(strings.ToLower(cfg.AdminEmails)),
		userIDs: parseCSV(strings.ToLower(cfg.AdminUserIDs)),
	}
}

func (a *adminCheck) hasToken(c *fiber.Ctx) bool {
	return a.token != "" && c.Get("X-Admin-Token") == a.token
}

func (a *adminCheck) isAdmin(c *fiber.Ctx) bool {
	if a.hasToken(c) {
		return true
	}

	sub, err := identity.GetUserID(c)
	if err != nil {
		return false
	}
	if contains(a.emails, strings.ToLower(identity.GetEmail(c))) || contains(a.userIDs, sub) {
		return true
	}

	// Role is read from the database so a demotion takes effect before the
	// access token expires.
	var user models.User
	if err := a.db.WithContext(c.UserContext()).Select("role").First(&user, "id = ?", sub).Error; err != nil {
		return false
	}
	return user.Role == "admin"
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	if val == "" {
		return false
	}
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
