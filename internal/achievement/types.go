package achievement

import (
	"strings"

	"github.com/abhisek/thinkforge/internal/apperr"
)

// Category groups achievements for display.
type Category string

const (
	CategoryMilestone Category = "milestone"
	CategoryStreak    Category = "streak"
	CategoryAccuracy  Category = "accuracy"
	CategoryKnowledge Category = "knowledge"
)

// AllCategories returns the categories in display order.
func AllCategories() []Category {
	return []Category{CategoryMilestone, CategoryStreak, CategoryAccuracy, CategoryKnowledge}
}

// DisplayName returns a human-readable label for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryMilestone:
		return "Milestone"
	case CategoryStreak:
		return "Streak"
	case CategoryAccuracy:
		return "Accuracy"
	case CategoryKnowledge:
		return "Knowledge"
	default:
		return string(c)
	}
}

// Icon returns the display icon for the category.
func (c Category) Icon() string {
	switch c {
	case CategoryMilestone:
		return "🏁"
	case CategoryStreak:
		return "⚡"
	case CategoryAccuracy:
		return "🎯"
	case CategoryKnowledge:
		return "📚"
	default:
		return "✦"
	}
}

// Activity is the kind of exercise a practice session came from.
type Activity string

const (
	ActivityPractice         Activity = "practice"
	ActivityConversation     Activity = "conversation"
	ActivityPerspective      Activity = "perspective"
	ActivityArgumentAnalysis Activity = "argument_analysis"
)

// Activities returns every activity kind.
func Activities() []Activity {
	return []Activity{ActivityPractice, ActivityConversation, ActivityPerspective, ActivityArgumentAnalysis}
}

// ParseActivity parses an activity name. The empty string means practice.
func ParseActivity(s string) (Activity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ActivityPractice, nil
	}
	for _, a := range Activities() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", apperr.Invalid("activity", s, "unknown activity")
}
