package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/jmoiron/sqlx"
)

type contentRow struct {
	ID         string `db:"id"`
	ConceptKey string `db:"concept_key"`
	Dimension  string `db:"dimension"`
	Level      int    `db:"level"`
	Difficulty int    `db:"difficulty"`
	Title      string `db:"title"`
	Published  bool   `db:"published"`
	ViewCount  int    `db:"view_count"`
	SortOrder  int    `db:"sort_order"`
}

func (c contentRow) record() ContentRecord {
	return ContentRecord{
		ID:         c.ID,
		ConceptKey: c.ConceptKey,
		Dimension:  dimension.Dimension(c.Dimension),
		Level:      c.Level,
		Difficulty: c.Difficulty,
		Title:      c.Title,
		Published:  c.Published,
		ViewCount:  c.ViewCount,
		SortOrder:  c.SortOrder,
	}
}

var (
	contentFields  = []string{"id", "concept_key", "dimension", "level", "difficulty", "title", "published", "view_count", "sort_order"}
	contentColumns = strings.Join(contentFields, ", ")
)

func (r *queries) ListContent(ctx context.Context, f ContentFilter) ([]ContentRecord, error) {
	query, args, err := r.contentQuery(f)
	if err != nil {
		return nil, fmt.Errorf("build content query: %w", err)
	}

	var rows []contentRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	out := make([]ContentRecord, len(rows))
	for i, row := range rows {
		out[i] = row.record()
	}
	return out, nil
}

// contentQuery renders f as a SELECT over content_items in catalog order.
func (r *queries) contentQuery(f ContentFilter) (string, []any, error) {
	var preds []*entsql.Predicate
	if f.PublishedOnly {
		preds = append(preds, entsql.EQ("published", true))
	}
	if f.MaxLevel > 0 {
		preds = append(preds, entsql.LTE("level", f.MaxLevel))
	}
	if len(f.Dimensions) > 0 {
		preds = append(preds, entsql.In("dimension", anys(f.Dimensions)...))
	}
	if len(f.ExcludeIDs) > 0 {
		preds = append(preds, entsql.NotIn("id", anys(f.ExcludeIDs)...))
	}

	sel := r.build().Select(contentFields...).From(entsql.Table("content_items"))
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	query, args := sel.OrderBy("sort_order", "id").Query()
	return query, args, sel.Err()
}

func (r *queries) GetContent(ctx context.Context, id string) (*ContentRecord, error) {
	var row contentRow
	err := sqlx.GetContext(ctx, r.q, &row, r.rebind(
		`SELECT `+contentColumns+` FROM content_items WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	rec := row.record()
	return &rec, nil
}

func (r *queries) UpsertContent(ctx context.Context, rec ContentRecord) error {
	_, err := r.q.ExecContext(ctx, r.rebind(
		`INSERT INTO content_items (`+contentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			concept_key = excluded.concept_key,
			dimension = excluded.dimension,
			level = excluded.level,
			difficulty = excluded.difficulty,
			title = excluded.title,
			published = excluded.published,
			sort_order = excluded.sort_order`),
		rec.ID, rec.ConceptKey, string(rec.Dimension), rec.Level, rec.Difficulty,
		rec.Title, rec.Published, rec.ViewCount, rec.SortOrder)
	if err != nil {
		return fmt.Errorf("upsert content: %w", err)
	}
	return nil
}

func (r *queries) IncrementViews(ctx context.Context, id string) error {
	query, args := r.build().Update("content_items").
		Set("view_count", entsql.Expr("view_count + 1")).
		Where(entsql.EQ("id", id)).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}
