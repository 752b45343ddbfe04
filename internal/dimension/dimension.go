package dimension

import (
	"fmt"
	"strings"

	"github.com/abhisek/thinkforge/internal/apperr"
)

// Dimension identifies one of the five critical-thinking skill areas.
type Dimension string

const (
	CausalAnalysis      Dimension = "causal-analysis"
	PremiseChallenge    Dimension = "premise-challenge"
	FallacyDetection    Dimension = "fallacy-detection"
	IterativeReflection Dimension = "iterative-reflection"
	ConnectionTransfer  Dimension = "connection-transfer"
)

// Starter is the dimension recommended to learners with no history.
const Starter = CausalAnalysis

// All returns the five dimensions in display order.
func All() []Dimension {
	return []Dimension{
		CausalAnalysis,
		PremiseChallenge,
		FallacyDetection,
		IterativeReflection,
		ConnectionTransfer,
	}
}

// Valid reports whether d is one of the five known dimensions.
func (d Dimension) Valid() bool {
	return d.Index() >= 0
}

// Index returns the display-order position of d, or -1 if unknown.
func (d Dimension) Index() int {
	for i, known := range All() {
		if d == known {
			return i
		}
	}
	return -1
}

// DisplayName returns a human-readable name for the dimension.
func (d Dimension) DisplayName() string {
	switch d {
	case CausalAnalysis:
		return "Causal Analysis"
	case PremiseChallenge:
		return "Premise Challenge"
	case FallacyDetection:
		return "Fallacy Detection"
	case IterativeReflection:
		return "Iterative Reflection"
	case ConnectionTransfer:
		return "Connection & Transfer"
	default:
		return string(d)
	}
}

// Parse converts s into a Dimension, rejecting unknown identifiers.
func Parse(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", apperr.Invalid("dimension", s, fmt.Sprintf("must be one of %s", joinAll()))
	}
	return d, nil
}

func joinAll() string {
	names := make([]string, 0, 5)
	for _, d := range All() {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}
