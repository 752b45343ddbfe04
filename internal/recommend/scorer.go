package recommend

import (
	"context"
	"time"

	"github.com/abhisek/thinkforge/internal/apperr"
	"github.com/abhisek/thinkforge/internal/store"
	"go.uber.org/zap"
)

// Scorer ranks what a learner should study next.
type Scorer struct {
	repo   store.MasteryRepo
	cfg    Config
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scorer) { s.logger = l }
}

// NewScorer creates a Scorer reading mastery from repo.
func NewScorer(repo store.MasteryRepo, cfg Config, opts ...Option) *Scorer {
	s := &Scorer{repo: repo, cfg: cfg, now: time.Now, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Next returns the single best recommendation. A learner without any mastery
// records gets the starter dimension at high priority.
func (s *Scorer) Next(ctx context.Context, userID string) (*Recommendation, error) {
	records, err := s.repo.ListConceptMasteries(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("list concept mastery", err)
	}
	if len(records) == 0 {
		rec := Starter(s.cfg)
		return &rec, nil
	}
	ranked := Rank(records, s.now(), s.cfg)
	s.logger.Debug("recommendation ranked",
		zap.String("user", userID),
		zap.String("dimension", string(ranked[0].Dimension)),
		zap.Float64("score", ranked[0].Score))
	return &ranked[0], nil
}

// TopN returns up to n recommendations over the dimensions the learner has
// practiced. It returns an empty list for a learner with no history.
func (s *Scorer) TopN(ctx context.Context, userID string, n int) ([]Recommendation, error) {
	records, err := s.repo.ListConceptMasteries(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("list concept mastery", err)
	}
	ranked := Rank(records, s.now(), s.cfg)
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	if ranked == nil {
		ranked = []Recommendation{}
	}
	return ranked, nil
}
