package models

import (
	"time"

	"gorm.io/gorm"
)

// Exercise is a catalog entry: either a seeded default (UserMade false) or
// one a user created for themselves.
type Exercise struct {
	ID        string    `gorm:"type:char(24);primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;index" json:"name"`
	Muscle    string    `gorm:"size:50;not null" json:"muscle"`
	Equipment string    `gorm:"size:50;not null" json:"equipment"`
	UserMade  bool      `gorm:"not null;default:false;index" json:"userMade"`
	UserID    *string   `gorm:"type:char(24);index" json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (e *Exercise) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = NewID()
	}
	return nil
}
