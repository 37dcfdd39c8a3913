package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SetTemplate is a planned set inside a routine, not performance data.
type SetTemplate struct {
	ID        string `json:"id"`
	Reps      int    `json:"reps"`
	Weight    int    `json:"weight"`
	Completed bool   `json:"completed"`
}

// RoutineExercise denormalizes the catalog exercise so a routine renders
// without a join.
type RoutineExercise struct {
	ExerciseID string        `json:"exerciseId"`
	Name       string        `json:"name"`
	Muscle     string        `json:"muscle"`
	Equipment  string        `json:"equipment"`
	Sets       []SetTemplate `json:"sets"`
}

type Routine struct {
	ID        string                               `gorm:"type:char(24);primaryKey" json:"id"`
	Name      string                               `gorm:"size:255;not null" json:"name"`
	UserID    string                               `gorm:"type:char(24);not null;index" json:"userId"`
	Exercises datatypes.JSONSlice[RoutineExercise] `gorm:"not null" json:"exercises"`
	CreatedAt time.Time                            `json:"createdAt"`
	UpdatedAt time.Time                            `json:"updatedAt"`
}

func (r *Routine) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	return nil
}
