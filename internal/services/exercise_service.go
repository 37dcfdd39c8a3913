package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/validation"
	"gorm.io/gorm"
)

type ExerciseService struct {
	db          *gorm.DB
	strictEmpty bool
}

// NewExerciseService builds the catalog service. With strictEmpty set, an
// empty default catalog is reported as ErrExerciseNotFound.
func NewExerciseService(db *gorm.DB, strictEmpty bool) *ExerciseService {
	return &ExerciseService{db: db, strictEmpty: strictEmpty}
}

func (s *ExerciseService) CreateExercise(ctx context.Context, name, muscle, equipment string, userMade bool, userID string) (*models.Exercise, error) {
	name, err := validation.CheckString(name, "Exercise Name", 0, 100)
	if err != nil {
		return nil, err
	}
	if muscle, err = validation.CheckMuscleGroup(muscle); err != nil {
		return nil, err
	}
	if equipment, err = validation.CheckEquipment(equipment); err != nil {
		return nil, err
	}

	exercise := models.Exercise{
		Name:      name,
		Muscle:    muscle,
		Equipment: equipment,
		UserMade:  userMade,
	}
	if userID != "" {
		id, err := validation.CheckID(userID, "userId")
		if err != nil {
			return nil, err
		}
		exercise.UserID = &id
	}

	if err := s.db.WithContext(ctx).Create(&exercise).Error; err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	return &exercise, nil
}

// GetAllDefaultExercises lists the shared catalog, alphabetically.
func (s *ExerciseService) GetAllDefaultExercises(ctx context.Context) ([]models.Exercise, error) {
	exercises := []models.Exercise{}
	if err := s.db.WithContext(ctx).
		Where("user_made = ?", false).
		Order("name ASC").
		Find(&exercises).Error; err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	if len(exercises) == 0 && s.strictEmpty {
		return nil, ErrExerciseNotFound
	}
	return exercises, nil
}

// GetExercisesForUser lists the shared catalog plus the exercises userID made.
func (s *ExerciseService) GetExercisesForUser(ctx context.Context, userID string) ([]models.Exercise, error) {
	userID, err := validation.CheckID(userID, "userId")
	if err != nil {
		return nil, err
	}

	exercises := []models.Exercise{}
	if err := s.db.WithContext(ctx).
		Where("user_made = ? OR user_id = ?", false, userID).
		Order("name ASC").
		Find(&exercises).Error; err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	return exercises, nil
}

func (s *ExerciseService) GetExerciseByID(ctx context.Context, id string) (*models.Exercise, error) {
	id, err := validation.CheckID(id, "exerciseId")
	if err != nil {
		return nil, err
	}

	var exercise models.Exercise
	if err := s.db.WithContext(ctx).First(&exercise, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("failed to load exercise: %w", err)
	}
	return &exercise, nil
}
