package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/jmoiron/sqlx"
)

type assignmentRow struct {
	ID          string        `db:"id"`
	UserID      string        `db:"user_id"`
	Date        string        `db:"assigned_date"`
	ContentID   string        `db:"content_id"`
	Dimension   string        `db:"dimension"`
	Level       int           `db:"level"`
	Completed   bool          `db:"completed"`
	CompletedAt sql.NullInt64 `db:"completed_at"`
	CreatedAt   int64         `db:"created_at"`
}

func (a assignmentRow) record() DailyAssignmentRecord {
	rec := DailyAssignmentRecord{
		ID:        a.ID,
		UserID:    a.UserID,
		Date:      a.Date,
		ContentID: a.ContentID,
		Dimension: dimension.Dimension(a.Dimension),
		Level:     a.Level,
		Completed: a.Completed,
		CreatedAt: fromMillis(a.CreatedAt),
	}
	if a.CompletedAt.Valid {
		t := fromMillis(a.CompletedAt.Int64)
		rec.CompletedAt = &t
	}
	return rec
}

var (
	assignmentFields  = []string{"id", "user_id", "assigned_date", "content_id", "dimension", "level", "completed", "completed_at", "created_at"}
	assignmentColumns = strings.Join(assignmentFields, ", ")
)

func (r *queries) getAssignment(ctx context.Context, query string, args ...any) (*DailyAssignmentRecord, error) {
	var row assignmentRow
	err := sqlx.GetContext(ctx, r.q, &row, r.rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec := row.record()
	return &rec, nil
}

func (r *queries) GetDailyAssignment(ctx context.Context, userID, date string) (*DailyAssignmentRecord, error) {
	rec, err := r.getAssignment(ctx,
		`SELECT `+assignmentColumns+` FROM daily_assignments
		WHERE user_id = ? AND assigned_date = ?`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("get daily assignment: %w", err)
	}
	return rec, nil
}

func (r *queries) CreateDailyAssignment(ctx context.Context, rec DailyAssignmentRecord) (*DailyAssignmentRecord, error) {
	_, err := r.q.ExecContext(ctx, r.rebind(
		`INSERT INTO daily_assignments (`+assignmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, assigned_date) DO NOTHING`),
		rec.ID, rec.UserID, rec.Date, rec.ContentID, string(rec.Dimension),
		rec.Level, rec.Completed, nullMillis(rec.CompletedAt), toMillis(rec.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("create daily assignment: %w", err)
	}
	return r.GetDailyAssignment(ctx, rec.UserID, rec.Date)
}

func (r *queries) ReplaceDailyAssignment(ctx context.Context, rec DailyAssignmentRecord) error {
	_, err := r.q.ExecContext(ctx, r.rebind(
		`UPDATE daily_assignments
		SET content_id = ?, dimension = ?, level = ?, completed = ?, completed_at = NULL, created_at = ?
		WHERE user_id = ? AND assigned_date = ?`),
		rec.ContentID, string(rec.Dimension), rec.Level, false, toMillis(rec.CreatedAt),
		rec.UserID, rec.Date)
	if err != nil {
		return fmt.Errorf("replace daily assignment: %w", err)
	}
	return nil
}

func (r *queries) CompleteDailyAssignment(ctx context.Context, userID, date string, at time.Time) error {
	_, err := r.q.ExecContext(ctx, r.rebind(
		`UPDATE daily_assignments SET completed = ?, completed_at = ?
		WHERE user_id = ? AND assigned_date = ? AND completed = ?`),
		true, toMillis(at), userID, date, false)
	if err != nil {
		return fmt.Errorf("complete daily assignment: %w", err)
	}
	// The day's row is overwritten on re-roll, so completions are kept apart.
	_, err = r.q.ExecContext(ctx, r.rebind(
		`INSERT INTO content_completions (user_id, content_id, completed_at)
		SELECT user_id, content_id, ? FROM daily_assignments
		WHERE user_id = ? AND assigned_date = ?
		ON CONFLICT (user_id, content_id) DO NOTHING`),
		toMillis(at), userID, date)
	if err != nil {
		return fmt.Errorf("record content completion: %w", err)
	}
	return nil
}

func (r *queries) LatestAssignment(ctx context.Context, userID string) (*DailyAssignmentRecord, error) {
	query, args := r.build().Select(assignmentFields...).
		From(entsql.Table("daily_assignments")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("assigned_date"), entsql.Desc("created_at")).
		Limit(1).
		Query()
	rec, err := r.getAssignment(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("latest assignment: %w", err)
	}
	return rec, nil
}

func (r *queries) CompletedContentIDs(ctx context.Context, userID string) ([]string, error) {
	query, args := r.build().Select("content_id").
		From(entsql.Table("content_completions")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("content_id").
		Query()
	var ids []string
	if err := sqlx.SelectContext(ctx, r.q, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("completed content: %w", err)
	}
	return ids, nil
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}
