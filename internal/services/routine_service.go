package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// maxTemplateSets caps a numeric "sets" count.
const maxTemplateSets = 50

type RoutineService struct {
	db          *gorm.DB
	strictEmpty bool
}

// NewRoutineService builds the routine service. With strictEmpty set, list
// lookups that match nothing return ErrRoutineNotFound.
func NewRoutineService(db *gorm.DB, strictEmpty bool) *RoutineService {
	return &RoutineService{db: db, strictEmpty: strictEmpty}
}

func (s *RoutineService) CreateRoutine(ctx context.Context, name, userID string, exercises []dto.RoutineExerciseInput) (*models.Routine, error) {
	name, err := validation.CheckString(name, "Routine name", 0, 100)
	if err != nil {
		return nil, err
	}
	userID, err = validation.CheckID(userID, "userId")
	if err != nil {
		return nil, err
	}
	entries, err := buildRoutineExercises(exercises)
	if err != nil {
		return nil, err
	}

	routine := models.Routine{
		Name:      name,
		UserID:    userID,
		Exercises: datatypes.JSONSlice[models.RoutineExercise](entries),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrUserNotFound
		}
		return tx.Create(&routine).Error
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create routine: %w", err)
	}
	return &routine, nil
}

// GetRoutineByID returns the routine when actorID owns it.
func (s *RoutineService) GetRoutineByID(ctx context.Context, actorID, id string) (*models.Routine, error) {
	return s.loadOwned(s.db.WithContext(ctx), actorID, id)
}

// GetRoutinesByUserID lists a user's routines, newest first.
func (s *RoutineService) GetRoutinesByUserID(ctx context.Context, userID string) ([]models.Routine, error) {
	userID, err := validation.CheckID(userID, "userId")
	if err != nil {
		return nil, err
	}

	routines := []models.Routine{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&routines).Error; err != nil {
		return nil, fmt.Errorf("failed to list routines: %w", err)
	}
	if len(routines) == 0 && s.strictEmpty {
		return nil, ErrRoutineNotFound
	}
	return routines, nil
}

func (s *RoutineService) GetAllRoutines(ctx context.Context) ([]models.Routine, error) {
	routines := []models.Routine{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&routines).Error; err != nil {
		return nil, fmt.Errorf("failed to list routines: %w", err)
	}
	if len(routines) == 0 && s.strictEmpty {
		return nil, ErrRoutineNotFound
	}
	return routines, nil
}

// UpdateRoutine applies a partial update. A new exercise list replaces the
// stored one wholesale.
func (s *RoutineService) UpdateRoutine(ctx context.Context, actorID, id string, req dto.UpdateRoutineRequest) (*models.Routine, error) {
	var (
		name    string
		entries []models.RoutineExercise
		err     error
	)
	if req.Name != nil {
		if name, err = validation.CheckString(*req.Name, "Routine name", 0, 100); err != nil {
			return nil, err
		}
	}
	if req.Exercises != nil {
		if entries, err = buildRoutineExercises(req.Exercises); err != nil {
			return nil, err
		}
	}

	var routine *models.Routine
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := s.loadOwned(tx, actorID, id)
		if err != nil {
			return err
		}
		if req.Name != nil {
			r.Name = name
		}
		if req.Exercises != nil {
			r.Exercises = datatypes.JSONSlice[models.RoutineExercise](entries)
		}
		if err := tx.Save(r).Error; err != nil {
			return fmt.Errorf("failed to update routine: %w", err)
		}
		routine = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return routine, nil
}

// DeleteRoutineByID removes the routine and returns what was deleted.
// Workouts started from it keep their copied exercises.
func (s *RoutineService) DeleteRoutineByID(ctx context.Context, actorID, id string) (*models.Routine, error) {
	var routine *models.Routine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := s.loadOwned(tx, actorID, id)
		if err != nil {
			return err
		}
		res := tx.Delete(&models.Routine{}, "id = ?", r.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete routine: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRoutineNotFound
		}
		routine = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return routine, nil
}

func (s *RoutineService) loadOwned(db *gorm.DB, actorID, id string) (*models.Routine, error) {
	id, err := validation.CheckID(id, "routineId")
	if err != nil {
		return nil, err
	}

	var routine models.Routine
	if err := db.First(&routine, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, fmt.Errorf("failed to load routine: %w", err)
	}
	if routine.UserID != actorID {
		return nil, ErrNotOwner
	}
	return &routine, nil
}

// buildRoutineExercises validates client entries and materializes their set
// templates. The first violation found is returned.
func buildRoutineExercises(inputs []dto.RoutineExerciseInput) ([]models.RoutineExercise, error) {
	if len(inputs) == 0 {
		return nil, validation.Errorf("exercises", "Routine must contain at least one exercise")
	}

	entries := make([]models.RoutineExercise, 0, len(inputs))
	for _, in := range inputs {
		exerciseID, err := validation.CheckID(in.ExerciseID, "exerciseId")
		if err != nil {
			return nil, err
		}
		name, err := validation.CheckString(in.Name, "Exercise name", 0, 100)
		if err != nil {
			return nil, err
		}
		muscle, err := validation.CheckString(in.Muscle, "muscle", 0, 0)
		if err != nil {
			return nil, err
		}
		equipment, err := validation.CheckString(in.Equipment, "equipment", 0, 0)
		if err != nil {
			return nil, err
		}
		sets, err := buildSetTemplates(in.Sets)
		if err != nil {
			return nil, err
		}

		entries = append(entries, models.RoutineExercise{
			ExerciseID: exerciseID,
			Name:       name,
			Muscle:     muscle,
			Equipment:  equipment,
			Sets:       sets,
		})
	}
	return entries, nil
}

func buildSetTemplates(in dto.SetsInput) ([]models.SetTemplate, error) {
	if !in.Present {
		return nil, validation.Errorf("sets", "Each exercise must have sets")
	}

	if in.IsCount() {
		if in.Count <= 0 || in.Count > maxTemplateSets {
			return nil, validation.Errorf("sets", "sets must be a number between 1 and %d", maxTemplateSets)
		}
		sets := make([]models.SetTemplate, in.Count)
		for i := range sets {
			sets[i] = models.SetTemplate{ID: models.NewID()}
		}
		return sets, nil
	}

	if len(in.Items) == 0 {
		return nil, validation.Errorf("sets", "Each exercise must have at least one set")
	}
	sets := make([]models.SetTemplate, 0, len(in.Items))
	for _, item := range in.Items {
		if item.Reps == nil || item.Weight == nil || item.Completed == nil {
			return nil, validation.Errorf("sets", "Each set must have numeric reps, numeric weight and a completed flag")
		}
		if !isWholeNonNegative(*item.Reps) || !isWholeNonNegative(*item.Weight) {
			return nil, validation.Errorf("sets", "Set reps and weight must be whole non-negative numbers")
		}

		id := models.NewID()
		if item.ID != "" {
			checked, err := validation.CheckID(item.ID, "set id")
			if err != nil {
				return nil, err
			}
			id = checked
		}
		sets = append(sets, models.SetTemplate{
			ID:        id,
			Reps:      int(*item.Reps),
			Weight:    int(*item.Weight),
			Completed: *item.Completed,
		})
	}
	return sets, nil
}

func isWholeNonNegative(v float64) bool {
	return v >= 0 && v == math.Trunc(v) && v <= math.MaxInt32
}
