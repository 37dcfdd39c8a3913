package dto

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
)

type CreateWorkoutRequest struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Notes     string `json:"notes,omitempty"`
	RoutineID string `json:"routineId,omitempty"`
}

type CreateWorkoutResponse struct {
	Success bool            `json:"success"`
	Workout *models.Workout `json:"workout"`
}

type WorkoutExerciseInput struct {
	ExerciseID string `json:"exerciseId"`
	Name       string `json:"name"`
	Muscle     string `json:"muscle"`
	Equipment  string `json:"equipment"`
}

type AddExercisesRequest struct {
	Exercises []WorkoutExerciseInput `json:"exercises"`
}

type AddExercisesResponse struct {
	Message   string                   `json:"message"`
	Exercises []models.WorkoutExercise `json:"exercises"`
}

type AddSetRequest struct {
	Reps   *float64 `json:"reps"`
	Weight *float64 `json:"weight"`
}

type AddSetResponse struct {
	Message string             `json:"message"`
	Set     *models.WorkoutSet `json:"set"`
}

type UpdateSetRequest struct {
	Completed *bool `json:"completed"`
}

type FinishWorkoutRequest struct {
	Duration *int64 `json:"duration"`
}

type WorkoutResponse struct {
	Message string          `json:"message"`
	Workout *models.Workout `json:"workout"`
}

// ExerciseOrderItem is one element of a reorder request. Clients send either
// the entry id as a string or an object carrying it.
type ExerciseOrderItem string

func (e *ExerciseOrderItem) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*e = ExerciseOrderItem(id)
		return nil
	}

	var obj struct {
		ExerciseID string `json:"exerciseId"`
		ID         string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return errors.New("exercise order items must be ids or objects with an exerciseId")
	}
	if obj.ExerciseID == "" {
		obj.ExerciseID = obj.ID
	}
	*e = ExerciseOrderItem(obj.ExerciseID)
	return nil
}

type ReorderExercisesRequest struct {
	ExerciseOrder []ExerciseOrderItem `json:"exerciseOrder"`
}

// IDs flattens the order into plain entry ids.
func (r ReorderExercisesRequest) IDs() []string {
	if r.ExerciseOrder == nil {
		return nil
	}
	ids := make([]string, len(r.ExerciseOrder))
	for i, item := range r.ExerciseOrder {
		ids[i] = string(item)
	}
	return ids
}
