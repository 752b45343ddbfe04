package recommend

import (
	"time"

	"github.com/abhisek/thinkforge/internal/dimension"
)

// Priority buckets a recommendation score.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Reason explains a recommendation to the learner.
type Reason string

const (
	ReasonStartHere        Reason = "start here"
	ReasonStrengthenBasics Reason = "strengthen basics"
	ReasonReview           Reason = "review before forgetting"
	ReasonKeepPace         Reason = "keep up the pace"
)

// DimensionStats aggregates a learner's concept masteries in one dimension.
type DimensionStats struct {
	Dimension     dimension.Dimension `json:"dimension"`
	AvgMastery    float64             `json:"avg_mastery"`
	DaysSince     float64             `json:"days_since"`
	PracticeCount int                 `json:"practice_count"`
	// LastPracticedAt is the most recent practice of any concept.
	LastPracticedAt time.Time `json:"last_practiced_at"`
	// WeakConcepts are the lowest-mastery concept keys, weakest first.
	WeakConcepts []string `json:"weak_concepts"`
}

// Recommendation is one ranked study suggestion.
type Recommendation struct {
	Dimension    dimension.Dimension `json:"dimension"`
	Score        float64             `json:"score"`
	Priority     Priority            `json:"priority"`
	Reason       Reason              `json:"reason"`
	WeakConcepts []string            `json:"weak_concepts"`
	Stats        *DimensionStats     `json:"stats,omitempty"`
}
