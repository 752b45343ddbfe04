package recommend

// Config holds the recommendation weights and tier thresholds.
type Config struct {
	MasteryWeight float64 `yaml:"mastery_weight"`
	DecayWeight   float64 `yaml:"decay_weight"`
	BalanceWeight float64 `yaml:"balance_weight"`

	// DecayHorizonDays is the gap at which decay pressure saturates.
	DecayHorizonDays float64 `yaml:"decay_horizon_days"`

	HighThreshold   float64 `yaml:"high_threshold"`
	MediumThreshold float64 `yaml:"medium_threshold"`

	// LowMastery and StaleDays drive the reason text.
	LowMastery float64 `yaml:"low_mastery"`
	StaleDays  float64 `yaml:"stale_days"`

	WeakConcepts int `yaml:"weak_concepts"`
}

// DefaultConfig returns the standard weighting.
func DefaultConfig() Config {
	return Config{
		MasteryWeight:    0.4,
		DecayWeight:      0.3,
		BalanceWeight:    0.3,
		DecayHorizonDays: 7,
		HighThreshold:    0.7,
		MediumThreshold:  0.4,
		LowMastery:       0.4,
		StaleDays:        7,
		WeakConcepts:     3,
	}
}
