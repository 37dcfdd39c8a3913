// Package identity reads the authenticated caller out of the Fiber context
// populated by the JWT middleware.
package identity

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoIdentity = errors.New("invalid token in context")

// GetUserID extracts the user id from the "sub" claim.
func GetUserID(c *fiber.Ctx) (string, error) {
	claims, err := claimsFrom(c)
	if err != nil {
		return "", err
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return "", errors.New("missing sub claim")
	}

	return validation.CheckID(sub, "sub")
}

// GetEmail returns the email claim, or "" when the token has none.
func GetEmail(c *fiber.Ctx) string {
	claims, err := claimsFrom(c)
	if err != nil {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

// GetRole returns the role claim, or "" when the token has none.
func GetRole(c *fiber.Ctx) string {
	claims, err := claimsFrom(c)
	if err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

func claimsFrom(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, ErrNoIdentity
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}
