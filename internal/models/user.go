package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AuthProviderCredentials = "credentials"
	AuthProviderGoogle      = "google"
)

// Friend is a pending or accepted friendship link. Stored but not yet
// exposed through any endpoint.
type Friend struct {
	UserID string `json:"userId"`
	Status string `json:"status"` // acceptRequest, pending, friend
}

type User struct {
	ID             string                      `gorm:"type:char(24);primaryKey" json:"id"`
	Name           string                      `gorm:"size:255;not null" json:"name"`
	Email          string                      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password       string                      `gorm:"size:255" json:"-"`
	ProfilePicture string                      `gorm:"type:text" json:"profilePicture,omitempty"`
	AuthProvider   string                      `gorm:"size:50;default:'credentials'" json:"-"`
	GoogleSubject  *string                     `gorm:"size:255;index" json:"-"`
	Role           string                      `gorm:"size:20;default:'user'" json:"role"`
	Friends        datatypes.JSONSlice[Friend] `json:"friends"`
	Workouts       []Workout                   `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	if u.Friends == nil {
		u.Friends = datatypes.JSONSlice[Friend]{}
	}
	return nil
}

// HasPassword is false for accounts created through Google sign-in.
func (u *User) HasPassword() bool {
	return u.Password != ""
}
