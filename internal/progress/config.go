package progress

import (
	"fmt"

	"github.com/abhisek/thinkforge/internal/dimension"
)

// Gate is the requirement to unlock Level, measured on the level below it.
type Gate struct {
	Level       dimension.Level `yaml:"level"`
	MinAverage  float64         `yaml:"min_average"`
	MinSessions int             `yaml:"min_sessions"`
}

// Config holds level unlock and progress settings.
type Config struct {
	// Gates for levels 2..5 in ascending order.
	Gates []Gate `yaml:"gates"`
	// TargetSessions is the session volume that earns the full volume half
	// of the progress percentage.
	TargetSessions int `yaml:"target_sessions"`
}

// DefaultConfig returns the standard unlock table.
func DefaultConfig() Config {
	return Config{
		Gates: []Gate{
			{Level: 2, MinAverage: 70, MinSessions: 3},
			{Level: 3, MinAverage: 75, MinSessions: 5},
			{Level: 4, MinAverage: 80, MinSessions: 8},
			{Level: 5, MinAverage: 85, MinSessions: 12},
		},
		TargetSessions: 50,
	}
}

// Validate checks that there is one gate per level 2..5 and that gates never
// get easier as levels rise.
func (c Config) Validate() error {
	if len(c.Gates) != int(dimension.MaxLevel)-1 {
		return fmt.Errorf("want %d unlock gates, got %d", dimension.MaxLevel-1, len(c.Gates))
	}
	for i, g := range c.Gates {
		if want := dimension.Level(i + 2); g.Level != want {
			return fmt.Errorf("gate %d is for level %d, want %d", i, g.Level, want)
		}
		if g.MinAverage < 0 || g.MinAverage > 100 {
			return fmt.Errorf("level %d min_average %.1f outside 0..100", g.Level, g.MinAverage)
		}
		if g.MinSessions < 0 {
			return fmt.Errorf("level %d min_sessions is negative", g.Level)
		}
		if i > 0 {
			prev := c.Gates[i-1]
			if g.MinAverage < prev.MinAverage || g.MinSessions < prev.MinSessions {
				return fmt.Errorf("level %d gate is easier than level %d", g.Level, prev.Level)
			}
		}
	}
	if c.TargetSessions <= 0 {
		return fmt.Errorf("target_sessions must be positive")
	}
	return nil
}

// gate returns the gate guarding level l.
func (c Config) gate(l dimension.Level) Gate {
	return c.Gates[int(l)-2]
}
