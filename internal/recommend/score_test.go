package recommend

import (
	"testing"
	"time"

	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/store"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func rec(dim dimension.Dimension, key string, mastery float64, count int, ago time.Duration) store.ConceptMasteryRecord {
	return store.ConceptMasteryRecord{
		UserID:          "u1",
		Dimension:       dim,
		ConceptKey:      key,
		MasteryLevel:    mastery,
		PracticeCount:   count,
		LastPracticedAt: now.Add(-ago),
	}
}

func TestScore_Bounds(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		st   DimensionStats
		avg  float64
	}{
		{"zero everything", DimensionStats{}, 0},
		{"mastered and fresh", DimensionStats{AvgMastery: 1, PracticeCount: 10}, 10},
		{"weak and stale", DimensionStats{AvgMastery: 0, DaysSince: 90}, 5},
		{"out of range mastery", DimensionStats{AvgMastery: 1.7, DaysSince: -3}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.st, tt.avg, cfg)
			if got < 0 || got > 1 {
				t.Errorf("Score = %v, want within [0,1]", got)
			}
		})
	}
}

func TestScore_Weighted(t *testing.T) {
	cfg := DefaultConfig()
	st := DimensionStats{AvgMastery: 0.5, DaysSince: 3.5, PracticeCount: 2}
	// 0.4*0.5 + 0.3*0.5 + 0.3*(1-2/4)
	want := 0.2 + 0.15 + 0.15
	got := Score(st, 4, cfg)
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestPriorityFor(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		score float64
		want  Priority
	}{
		{0.9, PriorityHigh},
		{0.71, PriorityHigh},
		{0.7, PriorityMedium},
		{0.41, PriorityMedium},
		{0.4, PriorityLow},
		{0, PriorityLow},
	}
	for _, tt := range tests {
		if got := PriorityFor(tt.score, cfg); got != tt.want {
			t.Errorf("PriorityFor(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestReasonFor(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		st   DimensionStats
		want Reason
	}{
		{"low mastery wins over staleness", DimensionStats{AvgMastery: 0.2, DaysSince: 20}, ReasonStrengthenBasics},
		{"stale", DimensionStats{AvgMastery: 0.6, DaysSince: 7}, ReasonReview},
		{"on track", DimensionStats{AvgMastery: 0.6, DaysSince: 1}, ReasonKeepPace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReasonFor(tt.st, cfg); got != tt.want {
				t.Errorf("ReasonFor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	records := []store.ConceptMasteryRecord{
		rec(dimension.FallacyDetection, "fd-straw-man", 0.8, 4, 24*time.Hour),
		rec(dimension.FallacyDetection, "fd-ad-hominem", 0.2, 2, 72*time.Hour),
		rec(dimension.FallacyDetection, "fd-false-dilemma", 0.5, 1, 48*time.Hour),
		rec(dimension.FallacyDetection, "fd-slippery-slope", 0.5, 1, 48*time.Hour),
		rec(dimension.CausalAnalysis, "ca-confounders", 0.9, 3, time.Hour),
	}
	stats := Aggregate(records, now, 3)
	if len(stats) != 2 {
		t.Fatalf("got %d dimensions, want 2", len(stats))
	}
	if stats[0].Dimension != dimension.CausalAnalysis {
		t.Errorf("first dimension = %q, want display order", stats[0].Dimension)
	}

	fd := stats[1]
	if fd.PracticeCount != 8 {
		t.Errorf("PracticeCount = %d, want 8", fd.PracticeCount)
	}
	if fd.DaysSince != 3 {
		t.Errorf("DaysSince = %v, want 3 (largest gap)", fd.DaysSince)
	}
	if !fd.LastPracticedAt.Equal(now.Add(-24 * time.Hour)) {
		t.Errorf("LastPracticedAt = %v", fd.LastPracticedAt)
	}
	wantWeak := []string{"fd-ad-hominem", "fd-false-dilemma", "fd-slippery-slope"}
	if len(fd.WeakConcepts) != len(wantWeak) {
		t.Fatalf("WeakConcepts = %v, want %v", fd.WeakConcepts, wantWeak)
	}
	for i := range wantWeak {
		if fd.WeakConcepts[i] != wantWeak[i] {
			t.Errorf("WeakConcepts[%d] = %q, want %q", i, fd.WeakConcepts[i], wantWeak[i])
		}
	}
}

func TestRank_OnlyPracticedDimensions(t *testing.T) {
	records := []store.ConceptMasteryRecord{
		rec(dimension.PremiseChallenge, "pc-hidden-assumptions", 0.9, 5, time.Hour),
		rec(dimension.IterativeReflection, "ir-steelmanning", 0.1, 1, 10*24*time.Hour),
	}
	ranked := Rank(records, now, DefaultConfig())
	if len(ranked) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(ranked))
	}
	if ranked[0].Dimension != dimension.IterativeReflection {
		t.Errorf("top = %q, want the weak and stale dimension", ranked[0].Dimension)
	}
	if ranked[0].Priority != PriorityHigh {
		t.Errorf("top priority = %q, want high", ranked[0].Priority)
	}
	if ranked[0].Reason != ReasonStrengthenBasics {
		t.Errorf("top reason = %q", ranked[0].Reason)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("ranking not descending at %d", i)
		}
	}
}

func TestRank_TieBreaks(t *testing.T) {
	// Identical aggregates in both dimensions.
	records := []store.ConceptMasteryRecord{
		rec(dimension.ConnectionTransfer, "ct-analogy", 0.5, 2, 10*24*time.Hour),
		rec(dimension.ConnectionTransfer, "ct-cross-domain", 0.5, 2, 10*24*time.Hour),
		rec(dimension.CausalAnalysis, "ca-confounders", 0.5, 2, 10*24*time.Hour),
		rec(dimension.CausalAnalysis, "ca-causal-chains", 0.5, 2, 10*24*time.Hour),
	}
	ranked := Rank(records, now, DefaultConfig())
	if len(ranked) != 2 {
		t.Fatalf("got %d", len(ranked))
	}
	if ranked[0].Score != ranked[1].Score {
		t.Fatalf("scores differ: %v vs %v", ranked[0].Score, ranked[1].Score)
	}
	if ranked[0].Dimension != dimension.CausalAnalysis {
		t.Errorf("tie broken to %q, want dimension order", ranked[0].Dimension)
	}

	records[0].LastPracticedAt = now.Add(-11 * 24 * time.Hour)
	records[1].LastPracticedAt = now.Add(-11 * 24 * time.Hour)
	records[2].LastPracticedAt = now.Add(-8 * 24 * time.Hour)
	records[3].LastPracticedAt = now.Add(-8 * 24 * time.Hour)
	ranked = Rank(records, now, DefaultConfig())
	// Both decay terms saturate, so scores tie and the staler dimension leads.
	if ranked[0].Dimension != dimension.ConnectionTransfer {
		t.Errorf("tie broken to %q, want least recently practiced", ranked[0].Dimension)
	}
}

func TestStarter(t *testing.T) {
	s := Starter(DefaultConfig())
	if s.Dimension != dimension.Starter || s.Score != 1 || s.Priority != PriorityHigh || s.Reason != ReasonStartHere {
		t.Errorf("Starter = %+v", s)
	}
	if len(s.WeakConcepts) != 3 {
		t.Errorf("WeakConcepts = %v, want 3 starter concepts", s.WeakConcepts)
	}
}
