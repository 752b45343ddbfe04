package engine

import (
	"time"

	"github.com/abhisek/thinkforge/internal/achievement"
	"github.com/abhisek/thinkforge/internal/apperr"
	"github.com/abhisek/thinkforge/internal/dimension"
)

// PracticeOutcome is one finished practice session reported by the caller.
type PracticeOutcome struct {
	UserID          string
	Dimension       dimension.Dimension
	Level           dimension.Level
	Concepts        []string
	Score           int
	Activity        achievement.Activity
	DurationSeconds int
	// PracticedAt defaults to the engine clock when zero.
	PracticedAt time.Time
}

// Validate rejects malformed outcomes before anything is written.
func (o PracticeOutcome) Validate() error {
	if o.UserID == "" {
		return apperr.Invalid("user_id", o.UserID, "must not be empty")
	}
	if !o.Dimension.Valid() {
		return apperr.Invalid("dimension", string(o.Dimension), "unknown dimension")
	}
	if err := dimension.ValidateLevel(o.Level); err != nil {
		return err
	}
	if o.Score < 0 || o.Score > 100 {
		return apperr.Invalid("score", o.Score, "must be between 0 and 100")
	}
	if o.DurationSeconds < 0 {
		return apperr.Invalid("duration_seconds", o.DurationSeconds, "must not be negative")
	}
	if _, err := achievement.ParseActivity(string(o.Activity)); err != nil {
		return err
	}
	if len(o.Concepts) == 0 {
		return apperr.Invalid("concepts", o.Concepts, "at least one concept is required")
	}
	for _, c := range o.Concepts {
		if err := dimension.ValidateConcept(o.Dimension, c); err != nil {
			return err
		}
	}
	return nil
}

// concepts returns the concept keys without duplicates, in input order.
func (o PracticeOutcome) concepts() []string {
	seen := make(map[string]bool, len(o.Concepts))
	out := make([]string, 0, len(o.Concepts))
	for _, c := range o.Concepts {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func (o PracticeOutcome) lockKey() string {
	return o.UserID + "|" + string(o.Dimension)
}
