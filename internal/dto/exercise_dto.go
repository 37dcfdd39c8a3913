package dto

import "github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"

type CreateExerciseRequest struct {
	Name      string `json:"name"`
	Muscle    string `json:"muscle"`
	Equipment string `json:"equipment"`
	UserMade  *bool  `json:"userMade"`
	UserID    string `json:"userId,omitempty"`
}

type CreateExerciseResponse struct {
	Success  bool             `json:"success"`
	Exercise *models.Exercise `json:"exercise"`
}
