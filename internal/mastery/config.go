package mastery

// DefaultRetention is the weight kept from the prior mastery on each update.
const DefaultRetention = 0.7

// Config holds mastery update settings.
type Config struct {
	// Retention is the smoothing weight given to the previous mastery value.
	// The new observation receives 1-Retention.
	Retention float64 `yaml:"retention"`
}

// DefaultConfig returns sensible defaults for mastery updates.
func DefaultConfig() Config {
	return Config{Retention: DefaultRetention}
}
