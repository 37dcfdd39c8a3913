package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/database/databasetest"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func withUser(sub, email string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sub != "" {
			c.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub, "email": email}))
		}
		return c.Next()
	}
}

func status(t *testing.T, app *fiber.App, path string, headers map[string]string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	u := models.User{Name: "U", Email: email, Role: role}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func TestAdminRequired(t *testing.T) {
	db := databasetest.Open(t)
	cfg := &config.Config{AdminEmails: "Boss@Example.com", AdminToken: "s3cret"}

	admin := seedUser(t, db, "root@example.com", "admin")
	plain := seedUser(t, db, "plain@example.com", "user")
	listed := seedUser(t, db, "boss@example.com", "user")

	tests := []struct {
		name    string
		sub     string
		email   string
		headers map[string]string
		want    int
	}{
		{name: "anonymous", want: fiber.StatusUnauthorized},
		{name: "anonymous with token", headers: map[string]string{"X-Admin-Token": "s3cret"}, want: fiber.StatusOK},
		{name: "plain user", sub: plain.ID, email: plain.Email, want: fiber.StatusForbidden},
		{name: "role admin", sub: admin.ID, email: admin.Email, want: fiber.StatusOK},
		{name: "listed email", sub: listed.ID, email: listed.Email, want: fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/admin", withUser(tt.sub, tt.email), AdminRequired(db, cfg), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})
			assert.Equal(t, tt.want, status(t, app, "/admin", tt.headers))
		})
	}
}

func TestSelfOrAdmin(t *testing.T) {
	db := databasetest.Open(t)
	cfg := &config.Config{}
	admin := seedUser(t, db, "root@example.com", "admin")
	plain := seedUser(t, db, "plain@example.com", "user")
	other := seedUser(t, db, "other@example.com", "user")

	build := func(sub string) *fiber.App {
		app := fiber.New()
		app.Get("/users/:id", withUser(sub, ""), SelfOrAdmin(db, cfg, "id"), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
		return app
	}

	assert.Equal(t, fiber.StatusOK, status(t, build(plain.ID), "/users/"+plain.ID, nil))
	assert.Equal(t, fiber.StatusForbidden, status(t, build(plain.ID), "/users/"+other.ID, nil))
	assert.Equal(t, fiber.StatusOK, status(t, build(admin.ID), "/users/"+other.ID, nil))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, build(""), "/users/"+other.ID, nil))
}

func TestSecurityHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(SecurityHeaders())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}
