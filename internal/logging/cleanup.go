package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"gorm.io/gorm"
)

// PurgeResult counts the rows removed by one Purge pass.
type PurgeResult struct {
	SystemLogs    int64
	ResetTokens   int64
	RefreshTokens int64
}

// Purge deletes system logs older than retention, plus reset and refresh
// tokens that can no longer be used.
func Purge(ctx context.Context, db *gorm.DB, retention time.Duration, now time.Time) (PurgeResult, error) {
	var res PurgeResult
	db = db.WithContext(ctx)

	r := db.Where("timestamp < ?", now.Add(-retention)).Delete(&models.SystemLog{})
	if r.Error != nil {
		return res, r.Error
	}
	res.SystemLogs = r.RowsAffected

	r = db.Where("expires_at < ? OR used = ?", now, true).Delete(&models.PasswordResetToken{})
	if r.Error != nil {
		return res, r.Error
	}
	res.ResetTokens = r.RowsAffected

	r = db.Where("expires_at < ?", now).Delete(&models.RefreshToken{})
	if r.Error != nil {
		return res, r.Error
	}
	res.RefreshTokens = r.RowsAffected
	return res, nil
}

// StartCleanup runs Purge every interval until done is closed. The returned
// channel is closed once the goroutine has exited.
func StartCleanup(db *gorm.DB, retention, interval time.Duration, done <-chan struct{}) <-chan struct{} {
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				res, err := Purge(context.Background(), db, retention, time.Now())
				if err != nil {
					slog.Error("cleanup failed", "action", "cleanup", "error", err)
				} else if res.SystemLogs+res.ResetTokens+res.RefreshTokens > 0 {
					slog.Info("cleanup completed",
						"system_logs", res.SystemLogs,
						"reset_tokens", res.ResetTokens,
						"refresh_tokens", res.RefreshTokens,
					)
				}
			case <-done:
				return
			}
		}
	}()
	return exited
}
