package mastery

import "fmt"

// Band buckets a mastery value for display.
type Band string

const (
	BandNovice     Band = "novice"
	BandDeveloping Band = "developing"
	BandProficient Band = "proficient"
	BandMastered   Band = "mastered"
)

// BandFor returns the display band of a mastery value.
func BandFor(m float64) Band {
	switch {
	case m >= 0.85:
		return BandMastered
	case m >= 0.6:
		return BandProficient
	case m >= 0.3:
		return BandDeveloping
	default:
		return BandNovice
	}
}

// Percent formats a mastery value as a whole percentage.
func Percent(m float64) string {
	return fmt.Sprintf("%.0f%%", clamp(m, 0, 1)*100)
}
