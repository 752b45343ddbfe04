package daily

import (
	"sort"

	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/store"
)

// DerivedLevel is the highest content level offered to a learner with
// completed finished items.
func DerivedLevel(completed int, cfg Config) dimension.Level {
	per := cfg.ConceptsPerLevel
	if per <= 0 {
		per = 10
	}
	l := dimension.Level(completed/per + 1)
	if l > dimension.MaxLevel {
		return dimension.MaxLevel
	}
	return l
}

// rank orders candidates by level desc, difficulty asc, exposure asc and
// catalog order.
func rank(items []store.ContentRecord) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		if a.Difficulty != b.Difficulty {
			return a.Difficulty < b.Difficulty
		}
		if a.ViewCount != b.ViewCount {
			return a.ViewCount < b.ViewCount
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.ID < b.ID
	})
}

// preferredDimensions returns the dimensions of the recent sessions in
// dimension order, minus the most recently assigned one.
func preferredDimensions(recent []store.PracticeRecord, lastAssigned dimension.Dimension) []dimension.Dimension {
	seen := make(map[dimension.Dimension]bool)
	for _, p := range recent {
		seen[p.Dimension] = true
	}
	delete(seen, lastAssigned)

	var out []dimension.Dimension
	for _, d := range dimension.All() {
		if seen[d] {
			out = append(out, d)
		}
	}
	return out
}
