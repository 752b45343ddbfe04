package daily

// Config tunes the daily selector.
type Config struct {
	// ConceptsPerLevel is how many completed items raise the derived level by one.
	ConceptsPerLevel int `yaml:"concepts_per_level"`
	// RecentSessions is how many recent practice sessions define the
	// preferred dimensions.
	RecentSessions int `yaml:"recent_sessions"`
}

// DefaultConfig returns the standard selector sizes.
func DefaultConfig() Config {
	return Config{ConceptsPerLevel: 10, RecentSessions: 5}
}
