package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/database/databasetest"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{FirstName: "Ada", LastName: "Lovelace", Email: "Ada@Example.com", Password: "Sup3r$ecret"}
}

func TestRegisterAndLogin(t *testing.T) {
	db := databasetest.Open(t)
	cfg := testConfig()
	svc := NewAuthService(db, cfg)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", resp.User.Name)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.RefreshToken)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.User.ID, claims["sub"])
	assert.Equal(t, "user", claims["role"])

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", resp.User.ID).Error)
	assert.NotEqual(t, "Sup3r$ecret", stored.Password)

	_, err = svc.Register(ctx, registerRequest())
	assert.ErrorIs(t, err, ErrEmailTaken)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: " ADA@example.com", Password: "Sup3r$ecret"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "Sup3r$ecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(databasetest.Open(t), testConfig())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(r *dto.RegisterRequest)
		want   string
	}{
		{name: "first name", mutate: func(r *dto.RegisterRequest) { r.FirstName = "R2D2" }, want: "First Name is invalid"},
		{name: "email", mutate: func(r *dto.RegisterRequest) { r.Email = "a..b@example.com" }, want: "Email is not a valid email address"},
		{name: "short password", mutate: func(r *dto.RegisterRequest) { r.Password = "Ab1!" }, want: "Password needs to have a minimum of 8 characters"},
		{name: "weak password", mutate: func(r *dto.RegisterRequest) { r.Password = "password1" }, want: "Password is invalid, must contain at least one lowercase letter, at least one uppercase character, at least one number and at least one special character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerRequest()
			tt.mutate(req)
			_, err := svc.Register(ctx, req)
			require.Error(t, err)
			assert.True(t, validation.IsValidationError(err))
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	db := databasetest.Open(t)
	svc := NewAuthService(db, testConfig())
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, next.RefreshToken)

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken, "a used refresh token cannot be replayed")

	require.NoError(t, svc.Logout(ctx, &dto.LogoutRequest{RefreshToken: next.RefreshToken}))
	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: next.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGetUserByEmail(t *testing.T) {
	db := databasetest.Open(t)
	svc := NewAuthService(db, testConfig())
	ctx := context.Background()
	user := createUser(t, db, "lifter@example.com")

	got, err := svc.GetUserByEmail(ctx, "Lifter@Example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.GetUserByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.GetUser(ctx, models.NewID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
