// Package engine runs practice submissions through mastery, level unlock
// and achievement evaluation, and serves the read-side queries.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/abhisek/thinkforge/internal/achievement"
	"github.com/abhisek/thinkforge/internal/apperr"
	"github.com/abhisek/thinkforge/internal/cache"
	"github.com/abhisek/thinkforge/internal/daily"
	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/mastery"
	"github.com/abhisek/thinkforge/internal/progress"
	"github.com/abhisek/thinkforge/internal/recommend"
	"github.com/abhisek/thinkforge/internal/store"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config bundles the policy of every component.
type Config struct {
	Mastery   mastery.Config   `yaml:"mastery"`
	Progress  progress.Config  `yaml:"progress"`
	Recommend recommend.Config `yaml:"recommend"`
	Daily     daily.Config     `yaml:"daily"`

	// BatchConcurrency caps parallel submissions in SubmitBatch.
	BatchConcurrency int `yaml:"batch_concurrency"`
}

// DefaultConfig returns the default policy.
func DefaultConfig() Config {
	return Config{
		Mastery:          mastery.DefaultConfig(),
		Progress:         progress.DefaultConfig(),
		Recommend:        recommend.DefaultConfig(),
		Daily:            daily.DefaultConfig(),
		BatchConcurrency: 4,
	}
}

// Validate checks every component's policy.
func (c Config) Validate() error {
	if r := c.Mastery.Retention; r < 0 || r >= 1 {
		return fmt.Errorf("mastery.retention %.2f outside [0,1)", r)
	}
	if err := c.Progress.Validate(); err != nil {
		return fmt.Errorf("progress: %w", err)
	}
	rc := c.Recommend
	if sum := rc.MasteryWeight + rc.DecayWeight + rc.BalanceWeight; math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("recommend weights sum to %.3f, want 1", sum)
	}
	if rc.MediumThreshold >= rc.HighThreshold {
		return errors.New("recommend.medium_threshold must be below high_threshold")
	}
	if rc.DecayHorizonDays <= 0 || rc.WeakConcepts <= 0 {
		return errors.New("recommend decay_horizon_days and weak_concepts must be positive")
	}
	if c.Daily.ConceptsPerLevel <= 0 || c.Daily.RecentSessions <= 0 {
		return errors.New("daily sizes must be positive")
	}
	if c.BatchConcurrency <= 0 {
		return errors.New("batch_concurrency must be positive")
	}
	return nil
}

// Result is what one submission changed.
type Result struct {
	SessionID string
	Mastery   []mastery.Change
	Progress  progress.Result
	Grants    []achievement.Grant
}

// Recommender serves ranked recommendations.
type Recommender interface {
	Next(ctx context.Context, userID string) (*recommend.Recommendation, error)
	TopN(ctx context.Context, userID string, n int) ([]recommend.Recommendation, error)
}

// Engine is the entry point for callers.
type Engine struct {
	store       *store.Store
	cfg         Config
	locks       *keyedMutex
	recommender Recommender
	cache       *cache.Recommendations
	logger      *zap.Logger
	now         func() time.Time

	redis    redis.UniversalClient
	cacheCfg cache.Config
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCache puts a Redis read-through cache in front of recommendations.
func WithCache(client redis.UniversalClient, cfg cache.Config) Option {
	return func(e *Engine) {
		e.redis = client
		e.cacheCfg = cfg
	}
}

// New creates an Engine over st. It fails if cfg does not validate.
func New(st *store.Store, cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	e := &Engine{
		store:  st,
		cfg:    cfg,
		locks:  newKeyedMutex(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(e)
	}

	scorer := recommend.NewScorer(st.Repos(), cfg.Recommend,
		recommend.WithClock(e.now), recommend.WithLogger(e.logger))
	e.recommender = scorer
	if e.redis != nil {
		e.cache = cache.New(e.redis, scorer, e.cacheCfg, e.logger)
		e.recommender = e.cache
	}
	return e, nil
}

// Submit applies one practice outcome. Mastery, level progress and
// achievements are updated in one transaction; submissions for the same
// learner and dimension are serialized.
func (e *Engine) Submit(ctx context.Context, o PracticeOutcome) (*Result, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	now := e.now()
	if o.PracticedAt.IsZero() {
		o.PracticedAt = now
	}
	if o.Activity == "" {
		o.Activity = achievement.ActivityPractice
	}

	unlock := e.locks.Lock(o.lockKey())
	defer unlock()

	res := &Result{SessionID: uuid.NewString()}
	err := e.store.WithTx(ctx, func(tx store.Repos) error {
		if err := tx.LockDimensionProgress(ctx, o.UserID, o.Dimension); err != nil {
			return apperr.Storage("lock dimension progress", err)
		}
		concepts := o.concepts()
		err := tx.AppendPractice(ctx, store.PracticeRecord{
			ID:              res.SessionID,
			UserID:          o.UserID,
			Dimension:       o.Dimension,
			Level:           int(o.Level),
			Score:           o.Score,
			Activity:        string(o.Activity),
			DurationSeconds: o.DurationSeconds,
			Concepts:        concepts,
			PracticedAt:     o.PracticedAt,
		})
		if err != nil {
			return apperr.Storage("append practice", err)
		}

		res.Mastery, err = mastery.NewService(tx, e.cfg.Mastery, e.logger).
			RecordAll(ctx, o.UserID, o.Dimension, concepts, o.Score, o.PracticedAt)
		if err != nil {
			return err
		}

		prog, err := progress.NewEvaluator(tx, e.cfg.Progress, e.logger).
			Evaluate(ctx, o.UserID, o.Dimension, o.PracticedAt)
		if err != nil {
			return err
		}
		res.Progress = *prog

		res.Grants, err = achievement.NewEvaluator(tx, e.logger).Evaluate(ctx, o.UserID, now)
		return err
	})
	if err != nil {
		return nil, apperr.Storage("submit practice", err)
	}

	e.logger.Debug("practice submitted",
		zap.String("user", o.UserID),
		zap.String("dimension", string(o.Dimension)),
		zap.Int("level", int(o.Level)),
		zap.Int("score", o.Score),
		zap.Int("grants", len(res.Grants)))
	e.invalidate(ctx, o.UserID)
	return res, nil
}

// SubmitBatch submits outcomes concurrently. Results are in input order;
// the first error cancels outcomes not yet started.
func (e *Engine) SubmitBatch(ctx context.Context, outcomes []PracticeOutcome) ([]*Result, error) {
	results := make([]*Result, len(outcomes))
	g, gctx := errgroup.WithContext(ctx)
	limit := e.cfg.BatchConcurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, o := range outcomes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.Submit(gctx, o)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (e *Engine) invalidate(ctx context.Context, userID string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Invalidate(ctx, userID); err != nil {
		e.logger.Warn("recommendation cache invalidation failed",
			zap.String("user", userID), zap.Error(err))
	}
}

// Next returns the best study recommendation for the learner.
func (e *Engine) Next(ctx context.Context, userID string) (*recommend.Recommendation, error) {
	if userID == "" {
		return nil, apperr.Invalid("user_id", userID, "must not be empty")
	}
	return e.recommender.Next(ctx, userID)
}

// TopN returns up to n ranked recommendations.
func (e *Engine) TopN(ctx context.Context, userID string, n int) ([]recommend.Recommendation, error) {
	if userID == "" {
		return nil, apperr.Invalid("user_id", userID, "must not be empty")
	}
	if n < 0 {
		return nil, apperr.Invalid("n", n, "must not be negative")
	}
	return e.recommender.TopN(ctx, userID, n)
}

// Today returns the learner's daily assignment for the day of at.
func (e *Engine) Today(ctx context.Context, userID string, at time.Time) (*daily.Assignment, error) {
	var out *daily.Assignment
	err := e.store.WithTx(ctx, func(tx store.Repos) error {
		a, err := daily.NewSelector(tx, e.cfg.Daily, e.logger).Today(ctx, userID, at)
		out = a
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CompleteDaily marks the learner's assignment for the day of day finished.
func (e *Engine) CompleteDaily(ctx context.Context, userID string, day time.Time) (*store.DailyAssignmentRecord, error) {
	var out *store.DailyAssignmentRecord
	err := e.store.WithTx(ctx, func(tx store.Repos) error {
		rec, err := daily.NewSelector(tx, e.cfg.Daily, e.logger).Complete(ctx, userID, day, e.now())
		out = rec
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Progress returns the learner's progress in every dimension. Dimensions
// never practiced are reported at level 1 with no sessions.
func (e *Engine) Progress(ctx context.Context, userID string) ([]store.DimensionProgressRecord, error) {
	rows, err := e.store.Repos().ListDimensionProgress(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("list dimension progress", err)
	}
	byDim := make(map[dimension.Dimension]store.DimensionProgressRecord, len(rows))
	for _, r := range rows {
		byDim[r.Dimension] = r
	}
	out := make([]store.DimensionProgressRecord, 0, len(dimension.All()))
	for _, d := range dimension.All() {
		r, ok := byDim[d]
		if !ok {
			r = store.DimensionProgressRecord{UserID: userID, Dimension: d, CurrentLevel: int(dimension.MinLevel)}
		}
		out = append(out, r)
	}
	return out, nil
}

// AchievementStatus is a catalog entry with the learner's grant, if any.
type AchievementStatus struct {
	Achievement store.AchievementRecord
	GrantedAt   *time.Time
}

// Achievements lists the catalog with the learner's unlocks.
func (e *Engine) Achievements(ctx context.Context, userID string) ([]AchievementStatus, error) {
	repos := e.store.Repos()
	catalog, err := repos.ListAchievements(ctx)
	if err != nil {
		return nil, apperr.Storage("list achievements", err)
	}
	grants, err := repos.ListGrants(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("list grants", err)
	}
	granted := make(map[string]time.Time, len(grants))
	for _, g := range grants {
		granted[g.AchievementID] = g.GrantedAt
	}
	out := make([]AchievementStatus, len(catalog))
	for i, a := range catalog {
		out[i] = AchievementStatus{Achievement: a}
		if at, ok := granted[a.ID]; ok {
			out[i].GrantedAt = &at
		}
	}
	return out, nil
}

// SeedAchievements loads the built-in achievement catalog into the store.
func (e *Engine) SeedAchievements(ctx context.Context) error {
	defs, err := achievement.DefaultCatalog()
	if err != nil {
		return err
	}
	return e.store.WithTx(ctx, func(tx store.Repos) error {
		return achievement.Seed(ctx, tx, defs)
	})
}

// ActiveUsers lists learners who practiced at or after since.
func (e *Engine) ActiveUsers(ctx context.Context, since time.Time) ([]string, error) {
	users, err := e.store.Repos().ActiveUsers(ctx, since)
	if err != nil {
		return nil, apperr.Storage("active users", err)
	}
	return users, nil
}
