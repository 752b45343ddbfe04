package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/thinkforge/internal/apperr"
	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/store"
	"go.uber.org/zap"
)

// Repo is the persistence the evaluator needs.
type Repo interface {
	store.ProgressRepo
	ListPracticeHistory(ctx context.Context, userID string, dim dimension.Dimension, level int) ([]store.PracticeRecord, error)
}

// Result is the outcome of one evaluation.
type Result struct {
	Progress store.DimensionProgressRecord
	From     dimension.Level
	To       dimension.Level
	// Recomputed is set when the stored state was inconsistent and the
	// derivation restarted from level 1.
	Recomputed bool
}

// Unlocked returns the levels opened by this evaluation.
func (r Result) Unlocked() []dimension.Level {
	var out []dimension.Level
	for l := r.From + 1; l <= r.To; l++ {
		out = append(out, l)
	}
	return out
}

// Evaluator re-derives dimension progress from the full practice history.
type Evaluator struct {
	repo   Repo
	cfg    Config
	logger *zap.Logger
}

// NewEvaluator creates an Evaluator over repo.
func NewEvaluator(repo Repo, cfg Config, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{repo: repo, cfg: cfg, logger: logger}
}

// Evaluate recomputes every level's aggregates from history, advances the
// current level through any satisfied gates and persists the result.
func (e *Evaluator) Evaluate(ctx context.Context, userID string, dim dimension.Dimension, now time.Time) (*Result, error) {
	prior, err := e.repo.GetDimensionProgress(ctx, userID, dim)
	if err != nil {
		return nil, apperr.Storage("get dimension progress", err)
	}

	var levels [5]store.LevelStats
	for _, l := range dimension.Levels() {
		history, err := e.repo.ListPracticeHistory(ctx, userID, dim, int(l))
		if err != nil {
			return nil, apperr.Storage(fmt.Sprintf("list level %d history", l), err)
		}
		levels[l-1] = Stats(history)
	}

	res := &Result{From: dimension.MinLevel}
	if prior != nil {
		stored := dimension.Level(prior.CurrentLevel)
		if stored.Valid() {
			res.From = stored
		} else {
			e.logger.Warn("inconsistent dimension progress, recomputing from level 1",
				zap.String("user", userID),
				zap.String("dimension", string(dim)),
				zap.Int("stored_level", prior.CurrentLevel))
			res.Recomputed = true
		}
	}

	current := Derive(res.From, levels, e.cfg)
	res.To = current

	res.Progress = store.DimensionProgressRecord{
		UserID:             userID,
		Dimension:          dim,
		CurrentLevel:       int(current),
		Levels:             levels,
		ProgressPercentage: Percentage(levels, current, e.cfg.TargetSessions),
		UpdatedAt:          now,
	}
	if err := e.repo.UpsertDimensionProgress(ctx, res.Progress); err != nil {
		return nil, apperr.Storage("upsert dimension progress", err)
	}

	for _, l := range res.Unlocked() {
		e.logger.Info("level unlocked",
			zap.String("user", userID),
			zap.String("dimension", string(dim)),
			zap.Int("level", int(l)))
	}
	return res, nil
}
