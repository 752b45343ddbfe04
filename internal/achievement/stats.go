package achievement

import (
	"sort"
	"time"

	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/store"
)

// Stats are the aggregates criteria are checked against. They are rebuilt
// from the full practice history on every evaluation.
type Stats struct {
	TotalSessions     int
	AverageScore      float64
	PerfectScores     int
	CurrentStreak     int
	RecentScores      []int // newest first
	DimensionAverages map[dimension.Dimension]float64
	TotalStudySeconds int
	ActivityCounts    map[Activity]int
}

// BuildStats aggregates a learner's practice history as of now.
func BuildStats(history []store.PracticeRecord, now time.Time) Stats {
	s := Stats{
		DimensionAverages: make(map[dimension.Dimension]float64),
		ActivityCounts:    make(map[Activity]int),
	}
	if len(history) == 0 {
		return s
	}

	sessions := make([]store.PracticeRecord, len(history))
	copy(sessions, history)
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].PracticedAt.After(sessions[j].PracticedAt)
	})

	total := 0
	dimTotal := make(map[dimension.Dimension]int)
	dimCount := make(map[dimension.Dimension]int)
	for _, p := range sessions {
		total += p.Score
		if p.Score == 100 {
			s.PerfectScores++
		}
		dimTotal[p.Dimension] += p.Score
		dimCount[p.Dimension]++
		s.TotalStudySeconds += p.DurationSeconds
		act := Activity(p.Activity)
		if act == "" {
			act = ActivityPractice
		}
		s.ActivityCounts[act]++
		s.RecentScores = append(s.RecentScores, p.Score)
	}
	s.TotalSessions = len(sessions)
	s.AverageScore = float64(total) / float64(len(sessions))
	for d, n := range dimCount {
		s.DimensionAverages[d] = float64(dimTotal[d]) / float64(n)
	}
	s.CurrentStreak = Streak(sessions, now)
	return s
}

// Streak counts consecutive UTC days with practice ending at the latest
// practice day. The streak is broken unless that day is today or yesterday.
func Streak(history []store.PracticeRecord, now time.Time) int {
	days := make(map[time.Time]bool)
	var latest time.Time
	for _, p := range history {
		d := truncateDay(p.PracticedAt)
		days[d] = true
		if d.After(latest) {
			latest = d
		}
	}
	if len(days) == 0 {
		return 0
	}

	today := truncateDay(now)
	if today.Sub(latest) > 24*time.Hour {
		return 0
	}
	streak := 0
	for d := latest; days[d]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
