package dimension

import "github.com/abhisek/thinkforge/internal/apperr"

// Level is a difficulty tier within a dimension.
type Level int

const (
	MinLevel Level = 1
	MaxLevel Level = 5
)

// Levels returns all levels in ascending order.
func Levels() []Level {
	return []Level{1, 2, 3, 4, 5}
}

// Valid reports whether l lies in MinLevel..MaxLevel.
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// ValidateLevel returns a validation error for levels outside 1..5.
func ValidateLevel(l Level) error {
	if !l.Valid() {
		return apperr.Invalid("level", int(l), "must be between 1 and 5")
	}
	return nil
}
