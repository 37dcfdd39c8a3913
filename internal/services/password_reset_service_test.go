package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/database/databasetest"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	m.sent = append(m.sent, resetURL)
	return m.err
}

func (m *recordingMailer) lastToken(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.sent)
	u, err := url.Parse(m.sent[len(m.sent)-1])
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestForgotAndResetPassword(t *testing.T) {
	db := databasetest.Open(t)
	cfg := testConfig()
	mailer := &recordingMailer{}
	resets := NewPasswordResetService(db, cfg, mailer)
	auth := NewAuthService(db, cfg)
	ctx := context.Background()

	session, err := auth.Register(ctx, registerRequest())
	require.NoError(t, err)

	require.NoError(t, resets.RequestReset(ctx, "nobody@example.com"))
	assert.Empty(t, mailer.sent, "unknown emails get no mail")

	require.NoError(t, resets.RequestReset(ctx, "ada@example.com"))
	first := mailer.lastToken(t)
	assert.Len(t, first, 64)
	assert.Contains(t, mailer.sent[0], "http://app.test/reset-password?token=")

	require.NoError(t, resets.RequestReset(ctx, "ADA@example.com"))
	second := mailer.lastToken(t)
	assert.NotEqual(t, first, second)

	err = resets.ResetPassword(ctx, first, "N3w$ecret!")
	assert.ErrorIs(t, err, ErrInvalidResetToken, "earlier tokens are invalidated")

	err = resets.ResetPassword(ctx, second, "weak")
	assert.True(t, validation.IsValidationError(err))

	require.NoError(t, resets.ResetPassword(ctx, second, "N3w$ecret!"))
	assert.ErrorIs(t, resets.ResetPassword(ctx, second, "N3w$ecret!"), ErrInvalidResetToken)

	_, err = auth.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "Sup3r$ecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "N3w$ecret!"})
	require.NoError(t, err)

	_, err = auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: session.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken, "reset revokes existing sessions")
}

func TestResetPasswordExpiredToken(t *testing.T) {
	db := databasetest.Open(t)
	mailer := &recordingMailer{}
	svc := NewPasswordResetService(db, testConfig(), mailer)
	ctx := context.Background()
	createUser(t, db, "lifter@example.com")

	require.NoError(t, svc.RequestReset(ctx, "lifter@example.com"))
	token := mailer.lastToken(t)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.ErrorIs(t, svc.ResetPassword(ctx, token, "N3w$ecret!"), ErrInvalidResetToken)
}

func TestRequestResetSwallowsMailFailures(t *testing.T) {
	db := databasetest.Open(t)
	mailer := &recordingMailer{err: errors.New("smtp down")}
	svc := NewPasswordResetService(db, testConfig(), mailer)
	ctx := context.Background()
	user := createUser(t, db, "lifter@example.com")

	require.NoError(t, svc.RequestReset(ctx, "lifter@example.com"))
	assert.EqualValues(t, 1, countRows(t, db, &models.PasswordResetToken{}, "user_id = ? AND used = ?", user.ID, false))

	err := svc.RequestReset(ctx, "not-an-email")
	assert.True(t, validation.IsValidationError(err))
}

func TestLogMailerOmitsResetLink(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	link := "http://app.test/reset-password?token=secret-token-value"
	assert.NoError(t, LogMailer{}.SendPasswordReset(context.Background(), "a@b.io", "A", link))
	assert.Contains(t, buf.String(), `"to":"a@b.io"`)
	assert.NotContains(t, buf.String(), "secret-token-value")
	assert.IsType(t, LogMailer{}, NewMailer(testConfig()))
}

func TestResetEmailStatesConfiguredTTL(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want string
	}{
		{ttl: time.Hour, want: "valid for 1 hour."},
		{ttl: 24 * time.Hour, want: "valid for 24 hours."},
		{ttl: 30 * time.Minute, want: "valid for 30 minutes."},
		{ttl: 90 * time.Second, want: "valid for 1m30s."},
	}
	for _, tt := range tests {
		t.Run(tt.ttl.String(), func(t *testing.T) {
			body, err := renderResetEmail("Ann", "http://app.test/reset-password?token=t", tt.ttl)
			require.NoError(t, err)
			assert.Contains(t, body, tt.want)
			assert.Contains(t, body, "Hi Ann,")
		})
	}

	cfg := testConfig()
	cfg.SMTPHost, cfg.MailFrom, cfg.ResetTokenTTL = "smtp.example.com", "noreply@example.com", 2*time.Hour
	m, ok := NewMailer(cfg).(*SMTPMailer)
	require.True(t, ok)
	assert.Equal(t, 2*time.Hour, m.ttl)
}
