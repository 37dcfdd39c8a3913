package services

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")

	ErrExerciseNotFound = errors.New("exercise not found")
	ErrRoutineNotFound  = errors.New("routine not found")

	ErrWorkoutNotFound         = errors.New("workout not found")
	ErrWorkoutExerciseNotFound = errors.New("workout or exercise not found")
	ErrSetNotFound             = errors.New("set not found")
	ErrWorkoutFinished         = errors.New("workout already finished")
	ErrInvalidExerciseOrder    = errors.New("invalid exercise order")

	ErrNotOwner = errors.New("not allowed to access this resource")
)
