package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/database/databasetest"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type captureMailer struct {
	links []string
}

func (m *captureMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	m.links = append(m.links, resetURL)
	return nil
}

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	cfg    *config.Config
	mailer *captureMailer
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := databasetest.Open(t)
	cfg := &config.Config{
		JWTSecret:        "handler-test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
		ResetTokenTTL:    time.Hour,
		BcryptCost:       bcrypt.MinCost,
		AppBaseURL:       "http://app.test",
	}
	mailer := &captureMailer{}

	authService := services.NewAuthService(db, cfg)
	app := fiber.New()
	routes.Setup(app, cfg, db, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, services.NewPasswordResetService(db, cfg, mailer)),
		User:     handlers.NewUserHandler(authService),
		Health:   handlers.NewHealthHandler(db),
		Exercise: handlers.NewExerciseHandler(services.NewExerciseService(db, false)),
		Routine:  handlers.NewRoutineHandler(services.NewRoutineService(db, false)),
		Workout:  handlers.NewWorkoutHandler(services.NewWorkoutService(db)),
	})

	return &testEnv{app: app, db: db, cfg: cfg, mailer: mailer}
}

func (e *testEnv) user(t *testing.T, email, role string) (*models.User, string) {
	t.Helper()
	u := models.User{Name: "Test User", Email: email, Role: role}
	require.NoError(t, e.db.Create(&u).Error)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  u.Role,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(e.cfg.JWTSecret))
	require.NoError(t, err)
	return &u, signed
}

// call sends body (if non-nil) as JSON and decodes the response into out
// (if non-nil). It returns the status code.
func (e *testEnv) call(t *testing.T, method, path, token string, body, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, out), string(data))
	}
	return resp.StatusCode
}

type errorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}
