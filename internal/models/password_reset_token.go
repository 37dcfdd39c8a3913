package models

import (
	"time"

	"gorm.io/gorm"
)

// PasswordResetToken stores the sha256 of a one-time reset token. Rows past
// ExpiresAt are purged by the logging janitor.
type PasswordResetToken struct {
	ID        string    `gorm:"type:char(24);primaryKey" json:"id"`
	UserID    string    `gorm:"type:char(24);not null;index" json:"userId"`
	TokenHash string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}
