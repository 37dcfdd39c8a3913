package models

import (
	"time"

	"gorm.io/gorm"
)

type Workout struct {
	ID        string            `gorm:"type:char(24);primaryKey" json:"id"`
	UserID    string            `gorm:"type:char(24);not null;index" json:"userId"`
	RoutineID *string           `gorm:"type:char(24);index" json:"routineId,omitempty"`
	Name      string            `gorm:"size:255;not null" json:"name"`
	Notes     string            `gorm:"type:text" json:"notes,omitempty"`
	Date      time.Time         `gorm:"not null" json:"date"`
	StartTime time.Time         `gorm:"not null;index" json:"startTime"`
	Finished  bool              `gorm:"not null;default:false;index" json:"finished"`
	Duration  *int64            `json:"duration"`
	Exercises []WorkoutExercise `gorm:"foreignKey:WorkoutID" json:"exercises"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func (w *Workout) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = NewID()
	}
	return nil
}

// WorkoutExercise is one entry of a workout. Its ID identifies the entry;
// ExerciseID points back at the catalog exercise it was copied from.
type WorkoutExercise struct {
	ID         string       `gorm:"type:char(24);primaryKey" json:"id"`
	WorkoutID  string       `gorm:"type:char(24);not null;index" json:"-"`
	ExerciseID string       `gorm:"type:char(24);not null" json:"exerciseId"`
	Name       string       `gorm:"size:255;not null" json:"name"`
	Muscle     string       `gorm:"size:50" json:"muscle"`
	Equipment  string       `gorm:"size:50" json:"equipment"`
	Notes      string       `gorm:"type:text" json:"notes"`
	Position   int          `gorm:"not null;default:0" json:"-"`
	Sets       []WorkoutSet `gorm:"foreignKey:WorkoutExerciseID" json:"sets"`
}

func (e *WorkoutExercise) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = NewID()
	}
	return nil
}

type WorkoutSet struct {
	ID                string `gorm:"type:char(24);primaryKey" json:"id"`
	WorkoutID         string `gorm:"type:char(24);not null;index" json:"-"`
	WorkoutExerciseID string `gorm:"type:char(24);not null;index" json:"-"`
	Reps              int    `gorm:"not null;default:0" json:"reps"`
	Weight            int    `gorm:"not null;default:0" json:"weight"`
	Completed         bool   `gorm:"not null;default:false" json:"completed"`
	Position          int    `gorm:"not null;default:0" json:"-"`
}

func (s *WorkoutSet) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	return nil
}
