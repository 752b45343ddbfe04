package achievement

import (
	"context"
	"time"

	"github.com/abhisek/thinkforge/internal/apperr"
	"github.com/abhisek/thinkforge/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repo is the persistence the evaluator needs.
type Repo interface {
	store.AchievementRepo
	ListUserPractice(ctx context.Context, userID string) ([]store.PracticeRecord, error)
}

// Grant is an achievement newly unlocked by an evaluation.
type Grant struct {
	Achievement store.AchievementRecord
	GrantedAt   time.Time
}

// Evaluator grants achievements whose criteria hold.
type Evaluator struct {
	repo   Repo
	logger *zap.Logger
}

// NewEvaluator creates an Evaluator over repo.
func NewEvaluator(repo Repo, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{repo: repo, logger: logger}
}

// Evaluate checks every catalog achievement not yet granted to the learner
// and grants those whose criteria hold. Existing grants are never revisited.
func (e *Evaluator) Evaluate(ctx context.Context, userID string, now time.Time) ([]Grant, error) {
	catalog, err := e.repo.ListAchievements(ctx)
	if err != nil {
		return nil, apperr.Storage("list achievements", err)
	}
	if len(catalog) == 0 {
		return nil, nil
	}
	history, err := e.repo.ListUserPractice(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("list user practice", err)
	}
	stats := BuildStats(history, now)

	var grants []Grant
	for _, a := range catalog {
		existing, err := e.repo.GetAchievementGrant(ctx, userID, a.ID)
		if err != nil {
			return nil, apperr.Storage("get achievement grant", err)
		}
		if existing != nil {
			continue
		}

		crit, err := ParseCriterion(a.Criteria)
		if err != nil {
			e.logger.Warn("skipping achievement with bad criteria",
				zap.String("achievement", a.ID), zap.Error(err))
			continue
		}
		if !crit.Holds(stats) {
			continue
		}

		inserted, err := e.repo.InsertAchievementGrant(ctx, store.GrantRecord{
			ID:            uuid.NewString(),
			UserID:        userID,
			AchievementID: a.ID,
			GrantedAt:     now,
		})
		if err != nil {
			return nil, apperr.Storage("insert achievement grant", err)
		}
		if !inserted {
			continue
		}
		e.logger.Info("achievement granted",
			zap.String("user", userID),
			zap.String("achievement", a.ID))
		grants = append(grants, Grant{Achievement: a, GrantedAt: now})
	}
	return grants, nil
}
