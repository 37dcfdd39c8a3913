package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultTemplateSets is how many empty sets an exercise gets when its
// routine template carries none.
const defaultTemplateSets = 3

type WorkoutService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewWorkoutService(db *gorm.DB) *WorkoutService {
	return &WorkoutService{db: db, now: time.Now}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}

// CreateWorkout starts a new workout for userID, optionally copying the
// exercises and set counts of one of the user's routines.
func (s *WorkoutService) CreateWorkout(ctx context.Context, userID, name, notes, routineID string) (*models.Workout, error) {
	userID, err := validation.CheckID(userID, "userId")
	if err != nil {
		return nil, err
	}
	if name, err = validation.CheckString(name, "workoutName", 0, 100); err != nil {
		return nil, err
	}
	if notes != "" {
		if notes, err = validation.CheckString(notes, "notes", 0, 1000); err != nil {
			return nil, err
		}
	}
	if routineID != "" {
		if routineID, err = validation.CheckID(routineID, "routineId"); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	workout := models.Workout{
		ID:        models.NewID(),
		UserID:    userID,
		Name:      name,
		Notes:     notes,
		Date:      now,
		StartTime: now,
		Exercises: []models.WorkoutExercise{},
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrUserNotFound
		}

		if routineID != "" {
			var routine models.Routine
			if err := tx.First(&routine, "id = ?", routineID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrRoutineNotFound
				}
				return err
			}
			if routine.UserID != userID {
				return ErrNotOwner
			}
			workout.RoutineID = &routine.ID
			workout.Exercises = materializeRoutine(workout.ID, routine.Exercises)
		}

		if err := tx.Omit(clause.Associations).Create(&workout).Error; err != nil {
			return err
		}
		if len(workout.Exercises) == 0 {
			return nil
		}
		if err := tx.Omit("Sets").Create(&workout.Exercises).Error; err != nil {
			return err
		}

		var sets []models.WorkoutSet
		for _, entry := range workout.Exercises {
			sets = append(sets, entry.Sets...)
		}
		if len(sets) == 0 {
			return nil
		}
		return tx.Create(&sets).Error
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create workout: %w", err)
	}
	return &workout, nil
}

func materializeRoutine(workoutID string, templates []models.RoutineExercise) []models.WorkoutExercise {
	entries := make([]models.WorkoutExercise, 0, len(templates))
	for i, tmpl := range templates {
		entry := models.WorkoutExercise{
			ID:         models.NewID(),
			WorkoutID:  workoutID,
			ExerciseID: tmpl.ExerciseID,
			Name:       tmpl.Name,
			Muscle:     orUnknown(tmpl.Muscle),
			Equipment:  orUnknown(tmpl.Equipment),
			Position:   i,
		}

		n := len(tmpl.Sets)
		if n == 0 {
			n = defaultTemplateSets
		}
		entry.Sets = make([]models.WorkoutSet, n)
		for j := range entry.Sets {
			entry.Sets[j] = models.WorkoutSet{
				ID:                models.NewID(),
				WorkoutID:         workoutID,
				WorkoutExerciseID: entry.ID,
				Position:          j,
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// GetWorkoutByID returns the workout with its exercises and sets in order.
func (s *WorkoutService) GetWorkoutByID(ctx context.Context, actorID, id string) (*models.Workout, error) {
	id, err := validation.CheckID(id, "workoutId")
	if err != nil {
		return nil, err
	}
	workout, err := loadWorkout(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if workout.UserID != actorID {
		return nil, ErrNotOwner
	}
	return workout, nil
}

// ListFinishedWorkouts returns the user's finished workouts, most recent first.
func (s *WorkoutService) ListFinishedWorkouts(ctx context.Context, userID string) ([]models.Workout, error) {
	userID, err := validation.CheckID(userID, "userId")
	if err != nil {
		return nil, err
	}

	workouts := []models.Workout{}
	if err := s.db.WithContext(ctx).
		Preload("Exercises", byPosition).
		Preload("Exercises.Sets", byPosition).
		Where("user_id = ? AND finished = ?", userID, true).
		Order("start_time DESC").
		Find(&workouts).Error; err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	for i := range workouts {
		normalize(&workouts[i])
	}
	return workouts, nil
}

// LatestUnfinishedWorkout returns the workout the user most recently started
// and has not finished.
func (s *WorkoutService) LatestUnfinishedWorkout(ctx context.Context, userID string) (*models.Workout, error) {
	userID, err := validation.CheckID(userID, "userId")
	if err != nil {
		return nil, err
	}

	var workout models.Workout
	err = s.db.WithContext(ctx).
		Preload("Exercises", byPosition).
		Preload("Exercises.Sets", byPosition).
		Where("user_id = ? AND finished = ?", userID, false).
		Order("start_time DESC").
		First(&workout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("failed to load workout: %w", err)
	}
	normalize(&workout)
	return &workout, nil
}

// AddExercise appends a single exercise entry.
func (s *WorkoutService) AddExercise(ctx context.Context, actorID, workoutID string, in dto.WorkoutExerciseInput) (*models.WorkoutExercise, error) {
	entries, err := s.AddExercises(ctx, actorID, workoutID, []dto.WorkoutExerciseInput{in})
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// AddExercises appends entries with fresh ids and no sets, after the
// workout's existing exercises.
func (s *WorkoutService) AddExercises(ctx context.Context, actorID, workoutID string, inputs []dto.WorkoutExerciseInput) ([]models.WorkoutExercise, error) {
	workoutID, err := validation.CheckID(workoutID, "workoutId")
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, validation.Errorf("exercises", "Invalid or empty exercises array")
	}

	entries := make([]models.WorkoutExercise, 0, len(inputs))
	for _, in := range inputs {
		exerciseID, err := validation.CheckID(in.ExerciseID, "ExerciseId")
		if err != nil {
			return nil, err
		}
		name, err := validation.CheckString(in.Name, "Exercise Name", 0, 100)
		if err != nil {
			return nil, err
		}
		muscle, err := validation.CheckString(in.Muscle, "Muscle", 0, 0)
		if err != nil {
			return nil, err
		}
		equipment, err := validation.CheckString(in.Equipment, "Equipment", 0, 0)
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.WorkoutExercise{
			ID:         models.NewID(),
			WorkoutID:  workoutID,
			ExerciseID: exerciseID,
			Name:       name,
			Muscle:     muscle,
			Equipment:  equipment,
			Sets:       []models.WorkoutSet{},
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadMutable(tx, actorID, workoutID); err != nil {
			return err
		}

		next, err := nextPosition(tx.Model(&models.WorkoutExercise{}).Where("workout_id = ?", workoutID))
		if err != nil {
			return err
		}
		for i := range entries {
			entries[i].Position = next + i
		}
		return tx.Omit("Sets").Create(&entries).Error
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to add exercises: %w", err)
	}
	return entries, nil
}

// RemoveExercise deletes one entry and its sets. Other entries keep their
// relative order.
func (s *WorkoutService) RemoveExercise(ctx context.Context, actorID, workoutID, entryID string) (*models.Workout, error) {
	workoutID, err := validation.CheckID(workoutID, "workoutId")
	if err != nil {
		return nil, err
	}
	if entryID, err = validation.CheckID(entryID, "exerciseId"); err != nil {
		return nil, err
	}

	return s.mutate(ctx, actorID, workoutID, func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ? AND workout_exercise_id = ?", workoutID, entryID).
			Delete(&models.WorkoutSet{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND workout_id = ?", entryID, workoutID).Delete(&models.WorkoutExercise{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrWorkoutExerciseNotFound
		}
		return nil
	})
}

// AddSet appends a set to an entry. reps and weight must be positive.
func (s *WorkoutService) AddSet(ctx context.Context, actorID, workoutID, entryID string, reps, weight int) (*models.WorkoutSet, error) {
	workoutID, err := validation.CheckID(workoutID, "workoutId")
	if err != nil {
		return nil, err
	}
	if entryID, err = validation.CheckID(entryID, "exerciseId"); err != nil {
		return nil, err
	}
	if reps <= 0 || weight <= 0 {
		return nil, validation.Errorf("reps", "Reps and weight must be positive integers")
	}

	set := models.WorkoutSet{
		ID:                models.NewID(),
		WorkoutID:         workoutID,
		WorkoutExerciseID: entryID,
		Reps:              reps,
		Weight:            weight,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadMutable(tx, actorID, workoutID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.WorkoutExercise{}).
			Where("id = ? AND workout_id = ?", entryID, workoutID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrWorkoutExerciseNotFound
		}

		next, err := nextPosition(tx.Model(&models.WorkoutSet{}).Where("workout_exercise_id = ?", entryID))
		if err != nil {
			return err
		}
		set.Position = next
		return tx.Create(&set).Error
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to add set: %w", err)
	}
	return &set, nil
}

// DeleteSet removes the set identified by all three ids.
func (s *WorkoutService) DeleteSet(ctx context.Context, actorID, workoutID, entryID, setID string) (*models.Workout, error) {
	ids, err := checkSetPath(workoutID, entryID, setID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, actorID, ids[0], func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND workout_exercise_id = ? AND workout_id = ?", ids[2], ids[1], ids[0]).
			Delete(&models.WorkoutSet{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSetNotFound
		}
		return nil
	})
}

// SetCompleted flips the completed flag of exactly one set.
func (s *WorkoutService) SetCompleted(ctx context.Context, actorID, workoutID, entryID, setID string, completed bool) (*models.WorkoutSet, error) {
	ids, err := checkSetPath(workoutID, entryID, setID)
	if err != nil {
		return nil, err
	}

	var set models.WorkoutSet
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadMutable(tx, actorID, ids[0]); err != nil {
			return err
		}

		scope := tx.Model(&models.WorkoutSet{}).
			Where("id = ? AND workout_exercise_id = ? AND workout_id = ?", ids[2], ids[1], ids[0])
		res := scope.Update("completed", completed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSetNotFound
		}
		return tx.First(&set, "id = ?", ids[2]).Error
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update set: %w", err)
	}
	return &set, nil
}

// ReorderExercises rewrites entry positions to match order, which must be a
// permutation of the workout's current entry ids.
func (s *WorkoutService) ReorderExercises(ctx context.Context, actorID, workoutID string, order []string) (*models.Workout, error) {
	workoutID, err := validation.CheckID(workoutID, "workoutId")
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, validation.Errorf("exerciseOrder", "Exercise order array is required")
	}

	return s.mutate(ctx, actorID, workoutID, func(tx *gorm.DB) error {
		var current []string
		if err := tx.Model(&models.WorkoutExercise{}).
			Where("workout_id = ?", workoutID).
			Pluck("id", &current).Error; err != nil {
			return err
		}
		if err := checkPermutation(current, order); err != nil {
			return err
		}

		for i, id := range order {
			if err := tx.Model(&models.WorkoutExercise{}).
				Where("id = ? AND workout_id = ?", id, workoutID).
				Update("position", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func checkPermutation(current, order []string) error {
	if len(order) != len(current) {
		return fmt.Errorf("%w: expected %d exercises, got %d", ErrInvalidExerciseOrder, len(current), len(order))
	}

	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if !known[id] {
			return fmt.Errorf("%w: unknown exercise %s", ErrInvalidExerciseOrder, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate exercise %s", ErrInvalidExerciseOrder, id)
		}
		seen[id] = true
	}
	return nil
}

// FinishWorkout marks the workout finished. A nil duration is computed from
// the start time in whole seconds.
func (s *WorkoutService) FinishWorkout(ctx context.Context, actorID, workoutID string, duration *int64) (*models.Workout, error) {
	workoutID, err := validation.CheckID(workoutID, "workoutId")
	if err != nil {
		return nil, err
	}
	if duration != nil && *duration < 0 {
		return nil, validation.Errorf("duration", "duration must be a non-negative number of seconds")
	}

	return s.mutate(ctx, actorID, workoutID, func(tx *gorm.DB) error {
		var workout models.Workout
		if err := tx.First(&workout, "id = ?", workoutID).Error; err != nil {
			return err
		}

		var d int64
		if duration != nil {
			d = *duration
		} else {
			d = int64(s.now().Sub(workout.StartTime) / time.Second)
			if d < 0 {
				d = 0
			}
		}

		res := tx.Model(&models.Workout{}).
			Where("id = ? AND finished = ?", workoutID, false).
			Updates(map[string]interface{}{"finished": true, "duration": d})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrWorkoutFinished
		}
		return nil
	})
}

// DeleteWorkout discards a workout with all of its exercises and sets.
// Finished workouts may be deleted too.
func (s *WorkoutService) DeleteWorkout(ctx context.Context, actorID, workoutID string) error {
	workoutID, err := validation.CheckID(workoutID, "workoutId")
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwnedHeader(tx, actorID, workoutID); err != nil {
			return err
		}
		if err := tx.Where("workout_id = ?", workoutID).Delete(&models.WorkoutSet{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workout_id = ?", workoutID).Delete(&models.WorkoutExercise{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Workout{}, "id = ?", workoutID).Error
	})
	if err != nil {
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("failed to delete workout: %w", err)
	}
	return nil
}

// mutate runs fn in a transaction after the ownership and finished checks,
// then returns the workout as it stands after the change.
func (s *WorkoutService) mutate(ctx context.Context, actorID, workoutID string, fn func(tx *gorm.DB) error) (*models.Workout, error) {
	var workout *models.Workout
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadMutable(tx, actorID, workoutID); err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			return err
		}
		w, err := loadWorkout(tx, workoutID)
		if err != nil {
			return err
		}
		workout = w
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update workout: %w", err)
	}
	return workout, nil
}

func loadWorkout(db *gorm.DB, id string) (*models.Workout, error) {
	var workout models.Workout
	err := db.
		Preload("Exercises", byPosition).
		Preload("Exercises.Sets", byPosition).
		First(&workout, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	normalize(&workout)
	return &workout, nil
}

func loadOwnedHeader(db *gorm.DB, actorID, id string) (*models.Workout, error) {
	var workout models.Workout
	if err := db.First(&workout, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.UserID != actorID {
		return nil, ErrNotOwner
	}
	return &workout, nil
}

func loadMutable(db *gorm.DB, actorID, id string) (*models.Workout, error) {
	workout, err := loadOwnedHeader(db, actorID, id)
	if err != nil {
		return nil, err
	}
	if workout.Finished {
		return nil, ErrWorkoutFinished
	}
	return workout, nil
}

// nextPosition returns one past the highest position in scope, or 0.
func nextPosition(scope *gorm.DB) (int, error) {
	var maxPos sql.NullInt64
	if err := scope.Select("MAX(position)").Row().Scan(&maxPos); err != nil {
		return 0, err
	}
	if !maxPos.Valid {
		return 0, nil
	}
	return int(maxPos.Int64) + 1, nil
}

func checkSetPath(workoutID, entryID, setID string) ([3]string, error) {
	var ids [3]string
	var err error
	if ids[0], err = validation.CheckID(workoutID, "workoutId"); err != nil {
		return ids, err
	}
	if ids[1], err = validation.CheckID(entryID, "exerciseId"); err != nil {
		return ids, err
	}
	if ids[2], err = validation.CheckID(setID, "setId"); err != nil {
		return ids, err
	}
	return ids, nil
}

// normalize replaces nil slices so responses render [] instead of null.
func normalize(w *models.Workout) {
	if w.Exercises == nil {
		w.Exercises = []models.WorkoutExercise{}
	}
	for i := range w.Exercises {
		if w.Exercises[i].Sets == nil {
			w.Exercises[i].Sets = []models.WorkoutSet{}
		}
	}
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrUserNotFound, ErrRoutineNotFound, ErrWorkoutNotFound, ErrWorkoutExerciseNotFound,
		ErrSetNotFound, ErrWorkoutFinished, ErrInvalidExerciseOrder, ErrNotOwner,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return validation.IsValidationError(err)
}
