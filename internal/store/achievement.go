package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

type achievementRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Category    string `db:"category"`
	Criteria    string `db:"criteria"`
	SortOrder   int    `db:"sort_order"`
}

type grantRow struct {
	ID            string `db:"id"`
	UserID        string `db:"user_id"`
	AchievementID string `db:"achievement_id"`
	GrantedAt     int64  `db:"granted_at"`
}

func (g grantRow) record() GrantRecord {
	return GrantRecord{
		ID:            g.ID,
		UserID:        g.UserID,
		AchievementID: g.AchievementID,
		GrantedAt:     fromMillis(g.GrantedAt),
	}
}

func (r *queries) ListAchievements(ctx context.Context) ([]AchievementRecord, error) {
	var rows []achievementRow
	err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT id, name, description, category, criteria, sort_order
		FROM achievements ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	out := make([]AchievementRecord, len(rows))
	for i, row := range rows {
		out[i] = AchievementRecord{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			Category:    row.Category,
			Criteria:    []byte(row.Criteria),
			SortOrder:   row.SortOrder,
		}
	}
	return out, nil
}

func (r *queries) UpsertAchievement(ctx context.Context, rec AchievementRecord) error {
	_, err := r.q.ExecContext(ctx, r.rebind(
		`INSERT INTO achievements (id, name, description, category, criteria, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			category = excluded.category,
			criteria = excluded.criteria,
			sort_order = excluded.sort_order`),
		rec.ID, rec.Name, rec.Description, rec.Category, string(rec.Criteria), rec.SortOrder)
	if err != nil {
		return fmt.Errorf("upsert achievement: %w", err)
	}
	return nil
}

func (r *queries) GetAchievementGrant(ctx context.Context, userID, achievementID string) (*GrantRecord, error) {
	var row grantRow
	err := sqlx.GetContext(ctx, r.q, &row, r.rebind(
		`SELECT id, user_id, achievement_id, granted_at FROM achievement_grants
		WHERE user_id = ? AND achievement_id = ?`), userID, achievementID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get achievement grant: %w", err)
	}
	rec := row.record()
	return &rec, nil
}

func (r *queries) InsertAchievementGrant(ctx context.Context, rec GrantRecord) (bool, error) {
	res, err := r.q.ExecContext(ctx, r.rebind(
		`INSERT INTO achievement_grants (id, user_id, achievement_id, granted_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, achievement_id) DO NOTHING`),
		rec.ID, rec.UserID, rec.AchievementID, toMillis(rec.GrantedAt))
	if err != nil {
		return false, fmt.Errorf("insert achievement grant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("grant rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *queries) ListGrants(ctx context.Context, userID string) ([]GrantRecord, error) {
	query, args := r.build().Select("id", "user_id", "achievement_id", "granted_at").
		From(entsql.Table("achievement_grants")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("granted_at", "achievement_id").
		Query()
	var rows []grantRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	out := make([]GrantRecord, len(rows))
	for i, row := range rows {
		out[i] = row.record()
	}
	return out, nil
}
