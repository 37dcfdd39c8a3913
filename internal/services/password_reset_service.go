package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ForgotPasswordMessage is returned whether or not the address is known.
const ForgotPasswordMessage = "If that email exists, a reset link has been sent"

type PasswordResetService struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer Mailer
	now    func() time.Time
}

func NewPasswordResetService(db *gorm.DB, cfg *config.Config, mailer Mailer) *PasswordResetService {
	return &PasswordResetService{db: db, cfg: cfg, mailer: mailer, now: time.Now}
}

// RequestReset issues a reset token for email if an account exists. Unknown
// addresses and delivery failures are not reported to the caller.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email, err := validation.CheckEmail(email, "Email")
	if err != nil {
		return err
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	rawToken, err := randomToken(hex.EncodeToString)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PasswordResetToken{}).
			Where("user_id = ? AND used = ?", user.ID, false).
			Update("used", true).Error; err != nil {
			return err
		}
		return tx.Create(&models.PasswordResetToken{
			UserID:    user.ID,
			TokenHash: hashToken(rawToken),
			ExpiresAt: s.now().Add(s.cfg.ResetTokenTTL),
		}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, s.resetURL(rawToken)); err != nil {
		slog.Error("failed to send password reset email", "user_id", user.ID, "action", "forgot_password", "error", err)
	}
	return nil
}

func (s *PasswordResetService) resetURL(token string) string {
	return strings.TrimRight(s.cfg.AppBaseURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

// ResetPassword consumes a reset token and sets a new password. Existing
// refresh tokens are revoked so other sessions must sign in again.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	token, err := validation.CheckString(token, "Token", 0, 0)
	if err != nil {
		return err
	}
	newPassword, err = validation.CheckPassword(newPassword, "Password", 8, 72)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored models.PasswordResetToken
		if err := tx.Where("token_hash = ? AND used = ?", hashToken(token), false).First(&stored).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidResetToken
			}
			return err
		}
		if s.now().After(stored.ExpiresAt) {
			return ErrInvalidResetToken
		}

		res := tx.Model(&models.PasswordResetToken{}).
			Where("id = ? AND used = ?", stored.ID, false).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidResetToken
		}

		res = tx.Model(&models.User{}).Where("id = ?", stored.UserID).Update("password", string(hash))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidResetToken
		}

		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND revoked = ?", stored.UserID, false).
			Update("revoked", true).Error
	})
	if err != nil {
		if errors.Is(err, ErrInvalidResetToken) {
			return err
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}
