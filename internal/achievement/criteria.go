package achievement

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/thinkforge/internal/dimension"
)

// Kind identifies a criterion type.
type Kind string

const (
	KindPracticeCount         Kind = "practice_count"
	KindStreakDays            Kind = "streak_days"
	KindPerfectScore          Kind = "perfect_score"
	KindAverageScore          Kind = "average_score"
	KindConsecutiveHighScores Kind = "consecutive_high_scores"
	KindDimensionAccuracy     Kind = "dimension_accuracy"
	KindAllDimensionsMastery  Kind = "all_dimensions_mastery"
	KindTotalStudyTime        Kind = "total_study_time"
	KindConversationCount     Kind = "conversation_count"
	KindPerspectiveCount      Kind = "perspective_count"
	KindArgumentAnalysisCount Kind = "argument_analysis_count"
)

// Criterion is an unlock condition over a learner's stats.
type Criterion interface {
	Kind() Kind
	Holds(s Stats) bool
}

// PracticeCount holds once the learner has completed Threshold sessions.
type PracticeCount struct{ Threshold int }

func (PracticeCount) Kind() Kind           { return KindPracticeCount }
func (c PracticeCount) Holds(s Stats) bool { return s.TotalSessions >= c.Threshold }

// StreakDays holds for a current daily streak of at least Threshold days.
type StreakDays struct{ Threshold int }

func (StreakDays) Kind() Kind           { return KindStreakDays }
func (c StreakDays) Holds(s Stats) bool { return s.CurrentStreak >= c.Threshold }

// PerfectScore holds once any session scored 100.
type PerfectScore struct{}

func (PerfectScore) Kind() Kind         { return KindPerfectScore }
func (PerfectScore) Holds(s Stats) bool { return s.PerfectScores > 0 }

// AverageScore holds when the overall average reaches Threshold.
type AverageScore struct{ Threshold float64 }

func (AverageScore) Kind() Kind { return KindAverageScore }
func (c AverageScore) Holds(s Stats) bool {
	return s.TotalSessions > 0 && s.AverageScore >= c.Threshold
}

// ConsecutiveHighScores holds when the last Count sessions all scored at
// least MinScore.
type ConsecutiveHighScores struct {
	Count    int
	MinScore int
}

func (ConsecutiveHighScores) Kind() Kind { return KindConsecutiveHighScores }
func (c ConsecutiveHighScores) Holds(s Stats) bool {
	if c.Count <= 0 || len(s.RecentScores) < c.Count {
		return false
	}
	for _, score := range s.RecentScores[:c.Count] {
		if score < c.MinScore {
			return false
		}
	}
	return true
}

// DimensionAccuracy holds when a dimension's average reaches Threshold. An
// empty Dimension matches any practiced dimension.
type DimensionAccuracy struct {
	Threshold float64
	Dimension dimension.Dimension
}

func (DimensionAccuracy) Kind() Kind { return KindDimensionAccuracy }
func (c DimensionAccuracy) Holds(s Stats) bool {
	if c.Dimension != "" {
		avg, ok := s.DimensionAverages[c.Dimension]
		return ok && avg >= c.Threshold
	}
	for _, avg := range s.DimensionAverages {
		if avg >= c.Threshold {
			return true
		}
	}
	return false
}

// AllDimensionsMastery holds when every dimension has been practiced and
// averages at least Threshold.
type AllDimensionsMastery struct{ Threshold float64 }

func (AllDimensionsMastery) Kind() Kind { return KindAllDimensionsMastery }
func (c AllDimensionsMastery) Holds(s Stats) bool {
	for _, d := range dimension.All() {
		avg, ok := s.DimensionAverages[d]
		if !ok || avg < c.Threshold {
			return false
		}
	}
	return true
}

// TotalStudyTime holds once cumulative practice time reaches Seconds.
type TotalStudyTime struct{ Seconds int }

func (TotalStudyTime) Kind() Kind           { return KindTotalStudyTime }
func (c TotalStudyTime) Holds(s Stats) bool { return s.TotalStudySeconds >= c.Seconds }

// ActivityCount tallies sessions of one activity kind.
type ActivityCount struct {
	Activity  Activity
	Threshold int
}

func (c ActivityCount) Kind() Kind {
	switch c.Activity {
	case ActivityConversation:
		return KindConversationCount
	case ActivityPerspective:
		return KindPerspectiveCount
	case ActivityArgumentAnalysis:
		return KindArgumentAnalysisCount
	default:
		return Kind(string(c.Activity) + "_count")
	}
}

func (c ActivityCount) Holds(s Stats) bool { return s.ActivityCounts[c.Activity] >= c.Threshold }

// descriptor is the stored JSON form of a criterion.
type descriptor struct {
	Type      Kind     `json:"type"`
	Threshold *float64 `json:"threshold,omitempty"`
	Count     *int     `json:"count,omitempty"`
	MinScore  *int     `json:"min_score,omitempty"`
	Dimension string   `json:"dimension,omitempty"`
}

// ParseCriterion decodes a criterion descriptor.
func ParseCriterion(raw []byte) (Criterion, error) {
	var d descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode criterion: %w", err)
	}

	threshold := func() (float64, error) {
		if d.Threshold == nil {
			return 0, fmt.Errorf("criterion %s: threshold required", d.Type)
		}
		return *d.Threshold, nil
	}

	switch d.Type {
	case KindPerfectScore:
		return PerfectScore{}, nil
	case KindConsecutiveHighScores:
		if d.Count == nil || d.MinScore == nil {
			return nil, fmt.Errorf("criterion %s: count and min_score required", d.Type)
		}
		return ConsecutiveHighScores{Count: *d.Count, MinScore: *d.MinScore}, nil
	case KindDimensionAccuracy:
		t, err := threshold()
		if err != nil {
			return nil, err
		}
		c := DimensionAccuracy{Threshold: t}
		if d.Dimension != "" {
			dim, err := dimension.Parse(d.Dimension)
			if err != nil {
				return nil, fmt.Errorf("criterion %s: %w", d.Type, err)
			}
			c.Dimension = dim
		}
		return c, nil
	}

	t, err := threshold()
	if err != nil {
		return nil, err
	}
	n := int(t)
	switch d.Type {
	case KindPracticeCount:
		return PracticeCount{Threshold: n}, nil
	case KindStreakDays:
		return StreakDays{Threshold: n}, nil
	case KindAverageScore:
		return AverageScore{Threshold: t}, nil
	case KindAllDimensionsMastery:
		return AllDimensionsMastery{Threshold: t}, nil
	case KindTotalStudyTime:
		return TotalStudyTime{Seconds: n}, nil
	case KindConversationCount:
		return ActivityCount{Activity: ActivityConversation, Threshold: n}, nil
	case KindPerspectiveCount:
		return ActivityCount{Activity: ActivityPerspective, Threshold: n}, nil
	case KindArgumentAnalysisCount:
		return ActivityCount{Activity: ActivityArgumentAnalysis, Threshold: n}, nil
	default:
		return nil, fmt.Errorf("unknown criterion type %q", d.Type)
	}
}
