package mastery

import (
	"time"

	"github.com/abhisek/thinkforge/internal/store"
)

// Normalize converts a 0..100 score into the 0..1 mastery scale.
func Normalize(score int) float64 {
	return clamp(float64(score)/100, 0, 1)
}

// Smooth folds a normalized observation into the prior mastery by
// exponential smoothing.
func Smooth(prior, observed, retention float64) float64 {
	return clamp(prior*retention+observed*(1-retention), 0, 1)
}

// Update returns the next mastery record for a concept. A nil prior is a cold
// start: the mastery becomes the normalized score.
func Update(prior *store.ConceptMasteryRecord, key Key, score int, now time.Time, cfg Config) store.ConceptMasteryRecord {
	observed := Normalize(score)

	next := store.ConceptMasteryRecord{
		UserID:          key.UserID,
		Dimension:       key.Dimension,
		ConceptKey:      key.Concept,
		MasteryLevel:    observed,
		PracticeCount:   1,
		LastPracticedAt: now,
	}
	if prior == nil {
		return next
	}

	next.MasteryLevel = Smooth(prior.MasteryLevel, observed, cfg.Retention)
	next.PracticeCount = prior.PracticeCount + 1
	return next
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
