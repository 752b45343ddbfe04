package progress

import (
	"testing"

	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/store"
)

func sessions(scores ...int) []store.PracticeRecord {
	out := make([]store.PracticeRecord, len(scores))
	for i, s := range scores {
		out[i] = store.PracticeRecord{Score: s}
	}
	return out
}

func TestStats(t *testing.T) {
	if got := Stats(nil); got != (store.LevelStats{}) {
		t.Errorf("Stats(nil) = %+v, want zero", got)
	}
	got := Stats(sessions(70, 72, 74))
	if got.QuestionsCompleted != 3 || got.AverageScore != 72 {
		t.Errorf("Stats = %+v, want {3 72}", got)
	}
}

func TestDerive(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name    string
		current dimension.Level
		levels  [5]store.LevelStats
		want    dimension.Level
	}{
		{
			name:    "nothing practiced",
			current: 1,
			want:    1,
		},
		{
			name:    "level 1 gate met",
			current: 1,
			levels:  [5]store.LevelStats{{QuestionsCompleted: 3, AverageScore: 72}},
			want:    2,
		},
		{
			name:    "score high but too few sessions",
			current: 1,
			levels:  [5]store.LevelStats{{QuestionsCompleted: 2, AverageScore: 100}},
			want:    1,
		},
		{
			name:    "enough sessions but score short",
			current: 1,
			levels:  [5]store.LevelStats{{QuestionsCompleted: 10, AverageScore: 69.9}},
			want:    1,
		},
		{
			name:    "cascade to level 5",
			current: 1,
			levels: [5]store.LevelStats{
				{QuestionsCompleted: 3, AverageScore: 70},
				{QuestionsCompleted: 5, AverageScore: 75},
				{QuestionsCompleted: 8, AverageScore: 80},
				{QuestionsCompleted: 12, AverageScore: 85},
			},
			want: 5,
		},
		{
			name:    "gap stops ascent even if higher stats qualify",
			current: 1,
			levels: [5]store.LevelStats{
				{QuestionsCompleted: 3, AverageScore: 90},
				{QuestionsCompleted: 1, AverageScore: 90},
				{QuestionsCompleted: 20, AverageScore: 95},
				{QuestionsCompleted: 20, AverageScore: 95},
			},
			want: 2,
		},
		{
			name:    "regression never re-locks",
			current: 4,
			levels: [5]store.LevelStats{
				{QuestionsCompleted: 3, AverageScore: 20},
				{QuestionsCompleted: 5, AverageScore: 20},
				{QuestionsCompleted: 8, AverageScore: 20},
			},
			want: 4,
		},
		{
			name:    "continues from current level",
			current: 4,
			levels: [5]store.LevelStats{
				{QuestionsCompleted: 3, AverageScore: 20},
				{},
				{},
				{QuestionsCompleted: 12, AverageScore: 88},
			},
			want: 5,
		},
		{
			name:    "below range clamps to level 1",
			current: 0,
			want:    1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Derive(tt.current, tt.levels, cfg); got != tt.want {
				t.Errorf("Derive = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name    string
		levels  [5]store.LevelStats
		current dimension.Level
		want    int
	}{
		{"example", [5]store.LevelStats{{QuestionsCompleted: 3}}, 2, 23},
		{"fresh", [5]store.LevelStats{}, 1, 10},
		{"volume capped", [5]store.LevelStats{{QuestionsCompleted: 500}}, 1, 60},
		{"complete", [5]store.LevelStats{{QuestionsCompleted: 25}, {QuestionsCompleted: 25}}, 5, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.levels, tt.current, 50); got != tt.want {
				t.Errorf("Percentage = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPercentage_NoTarget(t *testing.T) {
	if got := Percentage([5]store.LevelStats{}, 1, 0); got != 10 {
		t.Errorf("Percentage with zero target = %d, want 10", got)
	}
}

func TestUnlocked(t *testing.T) {
	got := Unlocked(2)
	want := [5]bool{true, true, false, false, false}
	if got != want {
		t.Errorf("Unlocked(2) = %v, want %v", got, want)
	}
	if !Unlocked(0)[0] {
		t.Error("level 1 must always be unlocked")
	}
}

func TestUnlocked_Monotone(t *testing.T) {
	for current := 1; current <= 5; current++ {
		flags := Unlocked(current)
		for k := 1; k < 5; k++ {
			if flags[k] && !flags[k-1] {
				t.Errorf("Unlocked(%d): level %d unlocked while %d locked", current, k+1, k)
			}
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	easier := DefaultConfig()
	easier.Gates[2].MinAverage = 60
	if err := easier.Validate(); err == nil {
		t.Error("expected error for gate easier than the one below")
	}

	short := DefaultConfig()
	short.Gates = short.Gates[:3]
	if err := short.Validate(); err == nil {
		t.Error("expected error for missing gate")
	}

	noTarget := DefaultConfig()
	noTarget.TargetSessions = 0
	if err := noTarget.Validate(); err == nil {
		t.Error("expected error for zero target sessions")
	}
}
