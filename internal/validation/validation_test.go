package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckString(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		minLen  int
		maxLen  int
		allowed []string
		want    string
		wantErr string
	}{
		{name: "trims", value: "  squat  ", want: "squat"},
		{name: "missing", value: "", wantErr: "Field not provided"},
		{name: "blank", value: "   ", wantErr: "Field is empty"},
		{name: "too short", value: "ab", minLen: 3, wantErr: "Field needs to have a minimum of 3 characters"},
		{name: "too long", value: "abcdef", maxLen: 5, wantErr: "Field needs to have a maximum of 5 characters"},
		{name: "allow-list is case-insensitive", value: "Push", allowed: []string{"push", "pull"}, want: "Push"},
		{name: "not allowed", value: "legs", allowed: []string{"push", "pull"}, wantErr: "Field is not a valid value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckString(tt.value, "Field", tt.minLen, tt.maxLen, tt.allowed...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				assert.True(t, IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckID(t *testing.T) {
	_, err := CheckID("not-an-id", "workoutId")
	require.Error(t, err)
	assert.Equal(t, "workoutId is not a valid object ID", err.Error())

	_, err = CheckID("507f1f77bcf86cd79943901", "workoutId")
	assert.Error(t, err, "23 characters")

	id, err := CheckID("507F1F77BCF86CD799439011", "workoutId")
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", id)
}

func TestCheckPassword(t *testing.T) {
	_, err := CheckPassword("abc", "Password", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must contain at least one lowercase letter")

	_, err = CheckPassword("Abc 123!", "Password", 0, 0)
	require.Error(t, err)
	assert.Equal(t, "Password cannot contain spaces", err.Error())

	_, err = CheckPassword("Abc1!", "Password", 8, 0)
	assert.Error(t, err)

	got, err := CheckPassword("Abc123!@", "Password", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "Abc123!@", got)
}

func TestCheckEmail(t *testing.T) {
	valid := []string{"user@example.com", "First.Last@Example.org", "a+tag@sub.domain.io"}
	for _, email := range valid {
		t.Run(email, func(t *testing.T) {
			_, err := CheckEmail(email, "")
			assert.NoError(t, err)
		})
	}

	got, err := CheckEmail("  Mixed@Example.COM ", "")
	require.NoError(t, err)
	assert.Equal(t, "mixed@example.com", got)

	invalid := []string{"user..name@example.com", "user@", "userexample.com", "@example.com", "user@exa mple.com"}
	for _, email := range invalid {
		t.Run(fmt.Sprintf("invalid %q", email), func(t *testing.T) {
			_, err := CheckEmail(email, "Email")
			require.Error(t, err)
			assert.Equal(t, "Email is not a valid email address", err.Error())
		})
	}
}

func TestCheckName(t *testing.T) {
	for _, name := range []string{"Ann", "Mary Jane", "O'Neil", "Jean-Luc", "St.John", "D’Angelo"} {
		_, err := CheckName(name, "First Name", 0, 0)
		assert.NoError(t, err, name)
	}
	for _, name := range []string{"Ann  Lee", "-Ann", "Ann-", "R2D2", "Ann_Lee"} {
		_, err := CheckName(name, "First Name", 0, 0)
		assert.Error(t, err, name)
	}
}

func TestEnumChecks(t *testing.T) {
	_, err := CheckMuscleGroup("Chest")
	assert.NoError(t, err)
	_, err = CheckMuscleGroup("Chest (Upper)")
	require.Error(t, err)
	assert.Equal(t, "Invalid muscle group: Chest (Upper)", err.Error())

	_, err = CheckEquipment("Suspension Trainer (e.g., TRX)")
	assert.NoError(t, err)
	_, err = CheckEquipment("Band")
	assert.Error(t, err)
	_, err = CheckEquipment("")
	assert.Error(t, err)
}
