package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/jmoiron/sqlx"
)

type progressRow struct {
	UserID             string  `db:"user_id"`
	Dimension          string  `db:"dimension"`
	CurrentLevel       int     `db:"current_level"`
	L1Completed        int     `db:"l1_completed"`
	L1Average          float64 `db:"l1_average"`
	L2Completed        int     `db:"l2_completed"`
	L2Average          float64 `db:"l2_average"`
	L3Completed        int     `db:"l3_completed"`
	L3Average          float64 `db:"l3_average"`
	L4Completed        int     `db:"l4_completed"`
	L4Average          float64 `db:"l4_average"`
	L5Completed        int     `db:"l5_completed"`
	L5Average          float64 `db:"l5_average"`
	ProgressPercentage int     `db:"progress_percentage"`
	UpdatedAt          int64   `db:"updated_at"`
}

func (p progressRow) record() DimensionProgressRecord {
	return DimensionProgressRecord{
		UserID:       p.UserID,
		Dimension:    dimension.Dimension(p.Dimension),
		CurrentLevel: p.CurrentLevel,
		Levels: [5]LevelStats{
			{QuestionsCompleted: p.L1Completed, AverageScore: p.L1Average},
			{QuestionsCompleted: p.L2Completed, AverageScore: p.L2Average},
			{QuestionsCompleted: p.L3Completed, AverageScore: p.L3Average},
			{QuestionsCompleted: p.L4Completed, AverageScore: p.L4Average},
			{QuestionsCompleted: p.L5Completed, AverageScore: p.L5Average},
		},
		ProgressPercentage: p.ProgressPercentage,
		UpdatedAt:          fromMillis(p.UpdatedAt),
	}
}

const progressColumns = `user_id, dimension, current_level,
	l1_completed, l1_average, l2_completed, l2_average, l3_completed, l3_average,
	l4_completed, l4_average, l5_completed, l5_average,
	progress_percentage, updated_at`

func (r *queries) GetDimensionProgress(ctx context.Context, userID string, dim dimension.Dimension) (*DimensionProgressRecord, error) {
	var row progressRow
	err := sqlx.GetContext(ctx, r.q, &row, r.rebind(
		`SELECT `+progressColumns+` FROM dimension_progress
		WHERE user_id = ? AND dimension = ?`), userID, string(dim))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dimension progress: %w", err)
	}
	rec := row.record()
	return &rec, nil
}

func (r *queries) UpsertDimensionProgress(ctx context.Context, rec DimensionProgressRecord) error {
	l := rec.Levels
	_, err := r.q.ExecContext(ctx, r.rebind(
		`INSERT INTO dimension_progress (`+progressColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, dimension) DO UPDATE SET
			current_level = excluded.current_level,
			l1_completed = excluded.l1_completed, l1_average = excluded.l1_average,
			l2_completed = excluded.l2_completed, l2_average = excluded.l2_average,
			l3_completed = excluded.l3_completed, l3_average = excluded.l3_average,
			l4_completed = excluded.l4_completed, l4_average = excluded.l4_average,
			l5_completed = excluded.l5_completed, l5_average = excluded.l5_average,
			progress_percentage = excluded.progress_percentage,
			updated_at = excluded.updated_at`),
		rec.UserID, string(rec.Dimension), rec.CurrentLevel,
		l[0].QuestionsCompleted, l[0].AverageScore,
		l[1].QuestionsCompleted, l[1].AverageScore,
		l[2].QuestionsCompleted, l[2].AverageScore,
		l[3].QuestionsCompleted, l[3].AverageScore,
		l[4].QuestionsCompleted, l[4].AverageScore,
		rec.ProgressPercentage, toMillis(rec.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert dimension progress: %w", err)
	}
	return nil
}

func (r *queries) ListDimensionProgress(ctx context.Context, userID string) ([]DimensionProgressRecord, error) {
	var rows []progressRow
	err := sqlx.SelectContext(ctx, r.q, &rows, r.rebind(
		`SELECT `+progressColumns+` FROM dimension_progress
		WHERE user_id = ? ORDER BY dimension`), userID)
	if err != nil {
		return nil, fmt.Errorf("list dimension progress: %w", err)
	}
	out := make([]DimensionProgressRecord, len(rows))
	for i, row := range rows {
		out[i] = row.record()
	}
	return out, nil
}

// LockDimensionProgress makes sure the row exists, then takes a row lock on
// PostgreSQL. SQLite runs a single connection, so holding the transaction is
// already exclusive.
func (r *queries) LockDimensionProgress(ctx context.Context, userID string, dim dimension.Dimension) error {
	_, err := r.q.ExecContext(ctx, r.rebind(
		`INSERT INTO dimension_progress (user_id, dimension, current_level, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (user_id, dimension) DO NOTHING`),
		userID, string(dim), toMillis(time.Now()))
	if err != nil {
		return fmt.Errorf("ensure dimension progress: %w", err)
	}
	if !r.postgres() {
		return nil
	}
	var level int
	err = sqlx.GetContext(ctx, r.q, &level, r.rebind(
		`SELECT current_level FROM dimension_progress
		WHERE user_id = ? AND dimension = ? FOR UPDATE`), userID, string(dim))
	if err != nil {
		return fmt.Errorf("lock dimension progress: %w", err)
	}
	return nil
}
