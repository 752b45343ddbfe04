package progress

import (
	"math"

	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/store"
)

// Stats computes the aggregate of a level's practice history. An empty
// history yields zero sessions and a zero average.
func Stats(history []store.PracticeRecord) store.LevelStats {
	if len(history) == 0 {
		return store.LevelStats{}
	}
	sum := 0
	for _, p := range history {
		sum += p.Score
	}
	return store.LevelStats{
		QuestionsCompleted: len(history),
		AverageScore:       float64(sum) / float64(len(history)),
	}
}

// Meets reports whether stats of the level below satisfy gate g.
func Meets(stats store.LevelStats, g Gate) bool {
	return stats.QuestionsCompleted >= g.MinSessions && stats.AverageScore >= g.MinAverage
}

// Derive ascends from the current level and unlocks each next level whose
// gate holds, stopping at the first gate that does not. It never returns a
// level below current.
func Derive(current dimension.Level, levels [5]store.LevelStats, cfg Config) dimension.Level {
	if current < dimension.MinLevel {
		current = dimension.MinLevel
	}
	for next := current + 1; next <= dimension.MaxLevel; next++ {
		if !Meets(levels[next-2], cfg.gate(next)) {
			break
		}
		current = next
	}
	return current
}

// Percentage blends session volume with level depth:
// round(0.5*min(100, total/target*100) + 0.5*(current/5*100)).
func Percentage(levels [5]store.LevelStats, current dimension.Level, target int) int {
	total := 0
	for _, l := range levels {
		total += l.QuestionsCompleted
	}
	var volume float64
	if target > 0 {
		volume = math.Min(100, float64(total)/float64(target)*100)
	}
	depth := float64(current) / float64(dimension.MaxLevel) * 100
	return int(math.Round(0.5*volume + 0.5*depth))
}

// Unlocked expands a current level into per-level unlock flags.
func Unlocked(current int) [5]bool {
	var flags [5]bool
	for i := range flags {
		flags[i] = i+1 <= current
	}
	flags[0] = true
	return flags
}
