package dto

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errSetsShape = errors.New("sets must be a number or an array of sets")

// SetsInput accepts either a set count or an explicit list of set templates.
type SetsInput struct {
	Present bool
	Count   int
	Items   []SetTemplateInput
}

// IsCount reports whether the client sent a number rather than a list.
func (s SetsInput) IsCount() bool {
	return s.Present && s.Items == nil
}

func (s *SetsInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = SetsInput{}
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		items := []SetTemplateInput{}
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*s = SetsInput{Present: true, Items: items}
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return errSetsShape
	}
	*s = SetsInput{Present: true, Count: n}
	return nil
}

func (s SetsInput) MarshalJSON() ([]byte, error) {
	if !s.Present {
		return []byte("null"), nil
	}
	if s.Items != nil {
		return json.Marshal(s.Items)
	}
	return json.Marshal(s.Count)
}

// SetTemplateInput uses pointers so missing fields can be told apart from
// zero values.
type SetTemplateInput struct {
	ID        string   `json:"id,omitempty"`
	Reps      *float64 `json:"reps"`
	Weight    *float64 `json:"weight"`
	Completed *bool    `json:"completed"`
}

type RoutineExerciseInput struct {
	ExerciseID string    `json:"exerciseId"`
	Name       string    `json:"name"`
	Muscle     string    `json:"muscle"`
	Equipment  string    `json:"equipment"`
	Sets       SetsInput `json:"sets"`
}

type CreateRoutineRequest struct {
	Name      string                 `json:"name"`
	UserID    string                 `json:"userId"`
	Exercises []RoutineExerciseInput `json:"exercises"`
}

// UpdateRoutineRequest is a partial update; a nil field is left untouched.
type UpdateRoutineRequest struct {
	Name      *string                `json:"name"`
	Exercises []RoutineExerciseInput `json:"exercises"`
}
