package recommend

import (
	"math"
	"sort"
	"time"

	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/store"
)

// Aggregate groups mastery records by dimension. Dimensions without records
// are omitted; the result is in dimension display order.
func Aggregate(records []store.ConceptMasteryRecord, now time.Time, weakN int) []DimensionStats {
	byDim := make(map[dimension.Dimension][]store.ConceptMasteryRecord)
	for _, r := range records {
		byDim[r.Dimension] = append(byDim[r.Dimension], r)
	}

	var out []DimensionStats
	for _, d := range dimension.All() {
		recs := byDim[d]
		if len(recs) == 0 {
			continue
		}
		out = append(out, aggregateDimension(d, recs, now, weakN))
	}
	return out
}

func aggregateDimension(d dimension.Dimension, recs []store.ConceptMasteryRecord, now time.Time, weakN int) DimensionStats {
	st := DimensionStats{Dimension: d}
	sum := 0.0
	for _, r := range recs {
		sum += r.MasteryLevel
		st.PracticeCount += r.PracticeCount
		if gap := daysBetween(r.LastPracticedAt, now); gap > st.DaysSince {
			st.DaysSince = gap
		}
		if r.LastPracticedAt.After(st.LastPracticedAt) {
			st.LastPracticedAt = r.LastPracticedAt
		}
	}
	st.AvgMastery = sum / float64(len(recs))

	sorted := make([]store.ConceptMasteryRecord, len(recs))
	copy(sorted, recs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].MasteryLevel != sorted[j].MasteryLevel {
			return sorted[i].MasteryLevel < sorted[j].MasteryLevel
		}
		return sorted[i].ConceptKey < sorted[j].ConceptKey
	})
	for i := 0; i < len(sorted) && i < weakN; i++ {
		st.WeakConcepts = append(st.WeakConcepts, sorted[i].ConceptKey)
	}
	return st
}

// Score weighs mastery deficit, decay pressure and practice imbalance. Each
// term is clamped to [0,1]; with weights summing to 1 so is the total.
func Score(st DimensionStats, avgPracticeCount float64, cfg Config) float64 {
	deficit := clamp(1-st.AvgMastery, 0, 1)

	decay := 1.0
	if cfg.DecayHorizonDays > 0 {
		decay = clamp(st.DaysSince/cfg.DecayHorizonDays, 0, 1)
	}

	balance := 0.0
	if avgPracticeCount > 0 {
		balance = clamp(1-math.Min(float64(st.PracticeCount)/avgPracticeCount, 1), 0, 1)
	}

	score := cfg.MasteryWeight*deficit + cfg.DecayWeight*decay + cfg.BalanceWeight*balance
	return clamp(score, 0, 1)
}

// PriorityFor buckets a score into a priority tier.
func PriorityFor(score float64, cfg Config) Priority {
	switch {
	case score > cfg.HighThreshold:
		return PriorityHigh
	case score > cfg.MediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ReasonFor picks the explanation for a dimension's recommendation.
func ReasonFor(st DimensionStats, cfg Config) Reason {
	switch {
	case st.AvgMastery < cfg.LowMastery:
		return ReasonStrengthenBasics
	case st.DaysSince >= cfg.StaleDays:
		return ReasonReview
	default:
		return ReasonKeepPace
	}
}

// Rank scores every practiced dimension and orders them by score, then by
// the stalest most recent practice, then by dimension order.
func Rank(records []store.ConceptMasteryRecord, now time.Time, cfg Config) []Recommendation {
	stats := Aggregate(records, now, cfg.WeakConcepts)
	if len(stats) == 0 {
		return nil
	}

	total := 0
	for _, st := range stats {
		total += st.PracticeCount
	}
	avgCount := float64(total) / float64(len(stats))

	recs := make([]Recommendation, len(stats))
	for i := range stats {
		st := stats[i]
		score := Score(st, avgCount, cfg)
		recs[i] = Recommendation{
			Dimension:    st.Dimension,
			Score:        score,
			Priority:     PriorityFor(score, cfg),
			Reason:       ReasonFor(st, cfg),
			WeakConcepts: st.WeakConcepts,
			Stats:        &st,
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		li, lj := recs[i].Stats.LastPracticedAt, recs[j].Stats.LastPracticedAt
		if !li.Equal(lj) {
			return li.Before(lj)
		}
		return recs[i].Dimension.Index() < recs[j].Dimension.Index()
	})
	return recs
}

// Starter is the fixed recommendation for a learner with no history.
func Starter(cfg Config) Recommendation {
	var weak []string
	for i, c := range dimension.Concepts(dimension.Starter) {
		if i >= cfg.WeakConcepts {
			break
		}
		weak = append(weak, c.Key)
	}
	return Recommendation{
		Dimension:    dimension.Starter,
		Score:        1,
		Priority:     PriorityHigh,
		Reason:       ReasonStartHere,
		WeakConcepts: weak,
	}
}

func daysBetween(from, to time.Time) float64 {
	d := to.Sub(from).Hours() / 24
	if d < 0 {
		return 0
	}
	return d
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
