// Package validation holds the input checks shared by services and handlers.
// Every check returns the normalized value or a *Error describing the first
// problem found.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error is a client-facing validation failure.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsValidationError reports whether err (or anything it wraps) is a *Error.
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// Errorf builds a *Error for checks that live outside this package.
func Errorf(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

var (
	emailPattern = regexp.MustCompile("^(?:[a-zA-Z0-9!#$%&'*+/=?^_`{|}~-]+(?:\\.[a-zA-Z0-9!#$%&'*+/=?^_`{|}~-]+)*" +
		"|\"(?:[\\x20-\\x21\\x23-\\x5B\\x5D-\\x7E]|\\\\[\\x00-\\x7F])*\")" +
		"@[a-zA-Z0-9-]+(?:\\.[a-zA-Z0-9-]+)*$")
	namePattern = regexp.MustCompile(`^[a-zA-Z]+([.'’-][a-zA-Z]+)*(\s[a-zA-Z]+([.'’-][a-zA-Z]+)*)*$`)
)

var MuscleGroups = []string{
	"Chest",
	"Back",
	"Shoulders",
	"Biceps",
	"Triceps",
	"Forearms",
	"Abs",
	"Obliques",
	"Quads",
	"Hamstrings",
	"Glutes",
	"Calves",
	"Traps",
	"Lats",
	"Neck",
	"Hip Flexors",
	"Adductors",
	"Abductors",
}

var Equipment = []string{
	"Barbell",
	"Dumbbell",
	"Kettlebell",
	"Machine",
	"Cable",
	"Bodyweight",
	"Resistance Band",
	"Smith Machine",
	"EZ Bar",
	"Trap Bar",
	"Medicine Ball",
	"Sandbag",
	"Foam Roller",
	"Stability Ball",
	"Pull-Up Bar",
	"Dip Bar",
	"Bench",
	"Treadmill",
	"Rowing Machine",
	"Bike",
	"Stair Climber",
	"Sled",
	"Jump Rope",
	"Suspension Trainer (e.g., TRX)",
}

// CheckString trims value and enforces presence, optional length bounds
// (0 disables a bound) and an optional case-insensitive allow-list.
func CheckString(value, name string, minLen, maxLen int, allowed ...string) (string, error) {
	if name == "" {
		name = "String"
	}
	if value == "" {
		return "", Errorf(name, "%s not provided", name)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", Errorf(name, "%s is empty", name)
	}
	if minLen > 0 && len(value) < minLen {
		return "", Errorf(name, "%s needs to have a minimum of %d characters", name, minLen)
	}
	if maxLen > 0 && len(value) > maxLen {
		return "", Errorf(name, "%s needs to have a maximum of %d characters", name, maxLen)
	}
	if len(allowed) > 0 {
		found := false
		for _, a := range allowed {
			if strings.EqualFold(a, value) {
				found = true
				break
			}
		}
		if !found {
			return "", Errorf(name, "%s is not a valid value", name)
		}
	}
	return value, nil
}

// CheckID validates a 24-hex-character object identifier.
func CheckID(value, name string) (string, error) {
	if name == "" {
		name = "ID"
	}
	value, err := CheckString(value, name, 0, 0)
	if err != nil {
		return "", err
	}
	if !primitive.IsValidObjectID(value) {
		return "", Errorf(name, "%s is not a valid object ID", name)
	}
	return strings.ToLower(value), nil
}

// CheckPassword requires a lowercase letter, an uppercase letter, a digit
// and a non-alphanumeric character, and rejects any whitespace.
func CheckPassword(value, name string, minLen, maxLen int) (string, error) {
	if name == "" {
		name = "Password"
	}
	value, err := CheckString(value, name, minLen, maxLen)
	if err != nil {
		return "", err
	}

	var upper, lower, digit, special bool
	for _, r := range value {
		switch {
		case unicode.IsSpace(r):
			return "", Errorf(name, "%s cannot contain spaces", name)
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		default:
			special = true
		}
	}
	if !(upper && lower && digit && special) {
		return "", Errorf(name, "%s is invalid, must contain at least one lowercase letter, at least one uppercase character, at least one number and at least one special character", name)
	}
	return value, nil
}

// CheckEmail validates the address shape and returns it lower-cased.
func CheckEmail(value, name string) (string, error) {
	if name == "" {
		name = "Email"
	}
	value, err := CheckString(value, name, 0, 0)
	if err != nil {
		return "", err
	}
	if strings.Contains(value, "..") || !emailPattern.MatchString(value) {
		return "", Errorf(name, "%s is not a valid email address", name)
	}
	return strings.ToLower(value), nil
}

// CheckName allows letters, internal apostrophes, hyphens and periods, and
// single spaces between words.
func CheckName(value, name string, minLen, maxLen int) (string, error) {
	if name == "" {
		name = "Name"
	}
	value, err := CheckString(value, name, minLen, maxLen)
	if err != nil {
		return "", err
	}
	if !namePattern.MatchString(value) {
		return "", Errorf(name, "%s is invalid", name)
	}
	return value, nil
}

func CheckMuscleGroup(value string) (string, error) {
	value, err := CheckString(value, "Muscle", 0, 0)
	if err != nil {
		return "", err
	}
	if !contains(MuscleGroups, value) {
		return "", Errorf("Muscle", "Invalid muscle group: %s", value)
	}
	return value, nil
}

func CheckEquipment(value string) (string, error) {
	value, err := CheckString(value, "Equipment", 0, 0)
	if err != nil {
		return "", err
	}
	if !contains(Equipment, value) {
		return "", Errorf("Equipment", "Invalid equipment: %s", value)
	}
	return value, nil
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
