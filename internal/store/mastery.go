package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/jmoiron/sqlx"
)

type masteryRow struct {
	UserID          string  `db:"user_id"`
	Dimension       string  `db:"dimension"`
	ConceptKey      string  `db:"concept_key"`
	MasteryLevel    float64 `db:"mastery_level"`
	PracticeCount   int     `db:"practice_count"`
	LastPracticedAt int64   `db:"last_practiced_at"`
}

func (m masteryRow) record() ConceptMasteryRecord {
	return ConceptMasteryRecord{
		UserID:          m.UserID,
		Dimension:       dimension.Dimension(m.Dimension),
		ConceptKey:      m.ConceptKey,
		MasteryLevel:    m.MasteryLevel,
		PracticeCount:   m.PracticeCount,
		LastPracticedAt: fromMillis(m.LastPracticedAt),
	}
}

const masteryColumns = `user_id, dimension, concept_key, mastery_level, practice_count, last_practiced_at`

func (r *queries) GetConceptMastery(ctx context.Context, userID string, dim dimension.Dimension, conceptKey string) (*ConceptMasteryRecord, error) {
	var row masteryRow
	err := sqlx.GetContext(ctx, r.q, &row, r.rebind(
		`SELECT `+masteryColumns+` FROM concept_mastery
		WHERE user_id = ? AND dimension = ? AND concept_key = ?`),
		userID, string(dim), conceptKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get concept mastery: %w", err)
	}
	rec := row.record()
	return &rec, nil
}

func (r *queries) UpsertConceptMastery(ctx context.Context, rec ConceptMasteryRecord) error {
	_, err := r.q.ExecContext(ctx, r.rebind(
		`INSERT INTO concept_mastery (`+masteryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, dimension, concept_key) DO UPDATE SET
			mastery_level = excluded.mastery_level,
			practice_count = excluded.practice_count,
			last_practiced_at = excluded.last_practiced_at`),
		rec.UserID, string(rec.Dimension), rec.ConceptKey,
		rec.MasteryLevel, rec.PracticeCount, toMillis(rec.LastPracticedAt))
	if err != nil {
		return fmt.Errorf("upsert concept mastery: %w", err)
	}
	return nil
}

func (r *queries) ListConceptMasteries(ctx context.Context, userID string) ([]ConceptMasteryRecord, error) {
	var rows []masteryRow
	err := sqlx.SelectContext(ctx, r.q, &rows, r.rebind(
		`SELECT `+masteryColumns+` FROM concept_mastery
		WHERE user_id = ?
		ORDER BY dimension, concept_key`), userID)
	if err != nil {
		return nil, fmt.Errorf("list concept mastery: %w", err)
	}
	out := make([]ConceptMasteryRecord, len(rows))
	for i, row := range rows {
		out[i] = row.record()
	}
	return out, nil
}
