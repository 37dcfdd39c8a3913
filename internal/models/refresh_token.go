package models

import (
	"time"

	"gorm.io/gorm"
)

type RefreshToken struct {
	ID        string    `gorm:"type:char(24);primaryKey" json:"id"`
	UserID    string    `gorm:"type:char(24);not null;index" json:"userId"`
	TokenHash string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}
