package handlers_test

import (
	"net/http"
	"testing"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExerciseEndpoints(t *testing.T) {
	env := newEnv(t)
	owner, token := env.user(t, "owner@example.com", "user")

	var defaults []models.Exercise
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/exercises", token, nil, &defaults))
	assert.Empty(t, defaults)

	var created dto.CreateExerciseResponse
	require.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, "/api/exercises", token,
		`{"name":"Cable Fly","muscle":"Chest","equipment":"Cable","userMade":true}`, &created))
	require.NotNil(t, created.Exercise.UserID)
	assert.Equal(t, owner.ID, *created.Exercise.UserID)

	var noFlag errorBody
	assert.Equal(t, http.StatusBadRequest, env.call(t, http.MethodPost, "/api/exercises", token,
		`{"name":"Cable Fly","muscle":"Chest","equipment":"Cable"}`, &noFlag))
	assert.Equal(t, "userMade must be a boolean", noFlag.Message)

	var badMuscle errorBody
	assert.Equal(t, http.StatusBadRequest, env.call(t, http.MethodPost, "/api/exercises", token,
		`{"name":"Cable Fly","muscle":"Pecs","equipment":"Cable","userMade":true}`, &badMuscle))
	assert.Equal(t, "Invalid muscle group: Pecs", badMuscle.Message)

	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/exercises", token, nil, &defaults))
	assert.Empty(t, defaults, "user-made exercises are not defaults")

	var mine []models.Exercise
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/exercises?mine=true", token, nil, &mine))
	assert.Len(t, mine, 1)

	var one models.Exercise
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/exercises/"+created.Exercise.ID, token, nil, &one))
	assert.Equal(t, "Cable Fly", one.Name)

	assert.Equal(t, http.StatusBadRequest, env.call(t, http.MethodGet, "/api/exercises/xyz", token, nil, nil))
	assert.Equal(t, http.StatusNotFound, env.call(t, http.MethodGet, "/api/exercises/"+models.NewID(), token, nil, nil))
}

func TestExerciseListQueryForms(t *testing.T) {
	env := newEnv(t)
	_, token := env.user(t, "owner@example.com", "user")

	var created dto.CreateExerciseResponse
	require.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, "/api/exercises", token,
		`{"name":"Bench Press","muscle":"Chest","equipment":"Barbell","userMade":false}`, &created))
	assert.Nil(t, created.Exercise.UserID)

	var one models.Exercise
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/exercises?id="+created.Exercise.ID, token, nil, &one))
	assert.Equal(t, created.Exercise.ID, one.ID)
	assert.Equal(t, "Bench Press", one.Name)

	var notFound errorBody
	assert.Equal(t, http.StatusNotFound, env.call(t, http.MethodGet, "/api/exercises?id="+models.NewID(), token, nil, &notFound))
	assert.True(t, notFound.Error)
	assert.Equal(t, http.StatusBadRequest, env.call(t, http.MethodGet, "/api/exercises?id=xyz", token, nil, nil))

	var defaults []models.Exercise
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/exercises?default=true", token, nil, &defaults))
	require.Len(t, defaults, 1)
	assert.Equal(t, created.Exercise.ID, defaults[0].ID)
}
