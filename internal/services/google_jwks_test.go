package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/database/databasetest"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientID = "client-123.apps.googleusercontent.com"

type fakeGoogle struct {
	key     *rsa.PrivateKey
	server  *httptest.Server
	fetches atomic.Int32
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	g := &fakeGoogle{key: key}
	g.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.fetches.Add(1)
		_ = json.NewEncoder(w).Encode(googleJWKS{Keys: []googleJWK{{
			Kty: "RSA",
			Kid: "test-kid",
			Alg: "RS256",
			Use: "sig",
			N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}})
	}))
	t.Cleanup(g.server.Close)
	return g
}

func (g *fakeGoogle) verifier() *GoogleTokenVerifier {
	v := NewGoogleTokenVerifier(testClientID)
	v.jwksURL = g.server.URL
	return v
}

func (g *fakeGoogle) sign(t *testing.T, mutate func(c *GoogleClaims)) string {
	t.Helper()
	claims := &GoogleClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://accounts.google.com",
			Subject:   "google-sub-1",
			Audience:  jwt.ClaimStrings{testClientID},
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:         "runner@gmail.com",
		EmailVerified: true,
		Name:          "Road Runner",
		Picture:       "https://example.com/p.png",
	}
	if mutate != nil {
		mutate(claims)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = "test-kid"
	signed, err := token.SignedString(g.key)
	require.NoError(t, err)
	return signed
}

func TestGoogleTokenVerifier(t *testing.T) {
	g := newFakeGoogle(t)
	v := g.verifier()
	ctx := context.Background()

	claims, err := v.Verify(ctx, g.sign(t, nil))
	require.NoError(t, err)
	assert.Equal(t, "google-sub-1", claims.Subject)
	assert.Equal(t, "runner@gmail.com", claims.Email)

	_, err = v.Verify(ctx, g.sign(t, nil))
	require.NoError(t, err)
	assert.EqualValues(t, 1, g.fetches.Load(), "keys are cached")

	bad := map[string]func(c *GoogleClaims){
		"wrong audience": func(c *GoogleClaims) { c.Audience = jwt.ClaimStrings{"someone-else"} },
		"wrong issuer":   func(c *GoogleClaims) { c.Issuer = "https://evil.example.com" },
		"expired":        func(c *GoogleClaims) { c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute)) },
	}
	for name, mutate := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(ctx, g.sign(t, mutate))
			assert.Error(t, err)
		})
	}

	_, err = NewGoogleTokenVerifier("").Verify(ctx, g.sign(t, nil))
	assert.ErrorIs(t, err, ErrGoogleNotConfigured)
}

func TestGoogleSignInCreatesThenLinks(t *testing.T) {
	db := databasetest.Open(t)
	g := newFakeGoogle(t)
	cfg := testConfig()
	cfg.GoogleClientID = testClientID
	svc := NewAuthService(db, cfg)
	svc.google = g.verifier()
	ctx := context.Background()

	first, err := svc.GoogleSignIn(ctx, &dto.GoogleSignInRequest{IDToken: g.sign(t, nil)})
	require.NoError(t, err)
	assert.Equal(t, "Road Runner", first.User.Name)
	assert.True(t, first.User.IsGoogleUser)

	again, err := svc.GoogleSignIn(ctx, &dto.GoogleSignInRequest{IDToken: g.sign(t, nil)})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, again.User.ID)

	existing := createUser(t, db, "walker@gmail.com")
	linked, err := svc.GoogleSignIn(ctx, &dto.GoogleSignInRequest{IDToken: g.sign(t, func(c *GoogleClaims) {
		c.Subject = "google-sub-2"
		c.Email = "Walker@gmail.com"
	})})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, linked.User.ID)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", existing.ID).Error)
	require.NotNil(t, stored.GoogleSubject)
	assert.Equal(t, "google-sub-2", *stored.GoogleSubject)

	_, err = svc.GoogleSignIn(ctx, &dto.GoogleSignInRequest{IDToken: g.sign(t, func(c *GoogleClaims) {
		c.Subject = "google-sub-3"
		c.EmailVerified = false
	})})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Google-only accounts cannot use the password login.
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "runner@gmail.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
