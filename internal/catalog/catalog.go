// Package catalog loads concept content into the store.
package catalog

import (
	"context"
	"fmt"

	"github.com/abhisek/thinkforge/internal/apperr"
	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/store"
)

// Default returns the built-in catalog: one published item per concept and
// level, ordered by dimension, concept and level.
func Default() []store.ContentRecord {
	var items []store.ContentRecord
	order := 0
	for _, d := range dimension.All() {
		for _, c := range dimension.Concepts(d) {
			for _, l := range dimension.Levels() {
				items = append(items, store.ContentRecord{
					ID:         fmt.Sprintf("%s-l%d", c.Key, l),
					ConceptKey: c.Key,
					Dimension:  d,
					Level:      int(l),
					Difficulty: int(l),
					Title:      fmt.Sprintf("%s (level %d)", c.Name, l),
					Published:  true,
					SortOrder:  order,
				})
				order++
			}
		}
	}
	return items
}

// Seed upserts items into the catalog. View counts of existing items are kept.
func Seed(ctx context.Context, repo store.ContentRepo, items []store.ContentRecord) error {
	for _, it := range items {
		if err := repo.UpsertContent(ctx, it); err != nil {
			return apperr.Storage("upsert content "+it.ID, err)
		}
	}
	return nil
}
