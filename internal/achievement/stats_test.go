package achievement

import (
	"testing"
	"time"

	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/store"
)

var now = time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)

func session(daysAgo int, score int, dim dimension.Dimension, activity Activity) store.PracticeRecord {
	return store.PracticeRecord{
		UserID:          "u1",
		Dimension:       dim,
		Level:           1,
		Score:           score,
		Activity:        string(activity),
		DurationSeconds: 300,
		PracticedAt:     now.AddDate(0, 0, -daysAgo).Add(-time.Hour),
	}
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name string
		days []int
		want int
	}{
		{"no history", nil, 0},
		{"today only", []int{0}, 1},
		{"ending yesterday", []int{1, 2, 3}, 3},
		{"gap breaks run", []int{0, 1, 3, 4, 5}, 2},
		{"stale", []int{2, 3, 4}, 0},
		{"several sessions per day", []int{0, 0, 1, 1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hist []store.PracticeRecord
			for _, d := range tt.days {
				hist = append(hist, session(d, 70, dimension.CausalAnalysis, ActivityPractice))
			}
			if got := Streak(hist, now); got != tt.want {
				t.Errorf("Streak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildStats(t *testing.T) {
	hist := []store.PracticeRecord{
		session(3, 60, dimension.CausalAnalysis, ActivityPractice),
		session(1, 100, dimension.FallacyDetection, ActivityConversation),
		session(0, 80, dimension.CausalAnalysis, ""),
	}
	s := BuildStats(hist, now)

	if s.TotalSessions != 3 {
		t.Errorf("TotalSessions = %d", s.TotalSessions)
	}
	if s.AverageScore != 80 {
		t.Errorf("AverageScore = %v, want 80", s.AverageScore)
	}
	if s.PerfectScores != 1 {
		t.Errorf("PerfectScores = %d", s.PerfectScores)
	}
	if s.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", s.CurrentStreak)
	}
	if len(s.RecentScores) != 3 || s.RecentScores[0] != 80 || s.RecentScores[2] != 60 {
		t.Errorf("RecentScores = %v, want newest first", s.RecentScores)
	}
	if s.DimensionAverages[dimension.CausalAnalysis] != 70 {
		t.Errorf("causal average = %v", s.DimensionAverages[dimension.CausalAnalysis])
	}
	if s.TotalStudySeconds != 900 {
		t.Errorf("TotalStudySeconds = %d", s.TotalStudySeconds)
	}
	if s.ActivityCounts[ActivityPractice] != 2 || s.ActivityCounts[ActivityConversation] != 1 {
		t.Errorf("ActivityCounts = %v", s.ActivityCounts)
	}
}
