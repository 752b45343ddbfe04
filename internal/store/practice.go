package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/jmoiron/sqlx"
)

type practiceRow struct {
	ID              string `db:"id"`
	UserID          string `db:"user_id"`
	Dimension       string `db:"dimension"`
	Level           int    `db:"level"`
	Score           int    `db:"score"`
	Activity        string `db:"activity"`
	DurationSeconds int    `db:"duration_seconds"`
	Concepts        string `db:"concepts"`
	PracticedAt     int64  `db:"practiced_at"`
}

func (p practiceRow) record() PracticeRecord {
	var concepts []string
	if p.Concepts != "" {
		concepts = strings.Split(p.Concepts, ",")
	}
	return PracticeRecord{
		ID:              p.ID,
		UserID:          p.UserID,
		Dimension:       dimension.Dimension(p.Dimension),
		Level:           p.Level,
		Score:           p.Score,
		Activity:        p.Activity,
		DurationSeconds: p.DurationSeconds,
		Concepts:        concepts,
		PracticedAt:     fromMillis(p.PracticedAt),
	}
}

func practiceRecords(rows []practiceRow) []PracticeRecord {
	out := make([]PracticeRecord, len(rows))
	for i, row := range rows {
		out[i] = row.record()
	}
	return out
}

var (
	practiceFields  = []string{"id", "user_id", "dimension", "level", "score", "activity", "duration_seconds", "concepts", "practiced_at"}
	practiceColumns = strings.Join(practiceFields, ", ")
)

func (r *queries) AppendPractice(ctx context.Context, rec PracticeRecord) error {
	_, err := r.q.ExecContext(ctx, r.rebind(
		`INSERT INTO practice_sessions (`+practiceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.UserID, string(rec.Dimension), rec.Level, rec.Score,
		rec.Activity, rec.DurationSeconds, strings.Join(rec.Concepts, ","),
		toMillis(rec.PracticedAt))
	if err != nil {
		return fmt.Errorf("append practice: %w", err)
	}
	return nil
}

func (r *queries) ListPracticeHistory(ctx context.Context, userID string, dim dimension.Dimension, level int) ([]PracticeRecord, error) {
	var rows []practiceRow
	err := sqlx.SelectContext(ctx, r.q, &rows, r.rebind(
		`SELECT `+practiceColumns+` FROM practice_sessions
		WHERE user_id = ? AND dimension = ? AND level = ?
		ORDER BY practiced_at, id`), userID, string(dim), level)
	if err != nil {
		return nil, fmt.Errorf("list practice history: %w", err)
	}
	return practiceRecords(rows), nil
}

func (r *queries) ListUserPractice(ctx context.Context, userID string) ([]PracticeRecord, error) {
	var rows []practiceRow
	err := sqlx.SelectContext(ctx, r.q, &rows, r.rebind(
		`SELECT `+practiceColumns+` FROM practice_sessions
		WHERE user_id = ?
		ORDER BY practiced_at, id`), userID)
	if err != nil {
		return nil, fmt.Errorf("list user practice: %w", err)
	}
	return practiceRecords(rows), nil
}

func (r *queries) RecentPractice(ctx context.Context, userID string, n int) ([]PracticeRecord, error) {
	query, args := r.build().Select(practiceFields...).
		From(entsql.Table("practice_sessions")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("practiced_at"), entsql.Desc("id")).
		Limit(n).
		Query()
	var rows []practiceRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("recent practice: %w", err)
	}
	return practiceRecords(rows), nil
}

func (r *queries) ActiveUsers(ctx context.Context, since time.Time) ([]string, error) {
	query, args := r.build().Select("user_id").
		Distinct().
		From(entsql.Table("practice_sessions")).
		Where(entsql.GTE("practiced_at", toMillis(since))).
		OrderBy("user_id").
		Query()
	var users []string
	if err := sqlx.SelectContext(ctx, r.q, &users, query, args...); err != nil {
		return nil, fmt.Errorf("active users: %w", err)
	}
	return users, nil
}
