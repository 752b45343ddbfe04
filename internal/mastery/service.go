package mastery

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/thinkforge/internal/apperr"
	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/store"
	"go.uber.org/zap"
)

// Key identifies one tracked concept of one learner.
type Key struct {
	UserID    string
	Dimension dimension.Dimension
	Concept   string
}

// Change records a mastery update for display and logging.
type Change struct {
	Key           Key
	From          float64 // 0 when Cold
	To            float64
	PracticeCount int
	Cold          bool // first practice of the concept
}

// Service applies practice outcomes to the mastery store.
type Service struct {
	repo   store.MasteryRepo
	cfg    Config
	logger *zap.Logger
}

// NewService creates a mastery service over repo.
func NewService(repo store.MasteryRepo, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, cfg: cfg, logger: logger}
}

// Record folds score into the concept's mastery and persists the result.
// Storage failures are returned as *apperr.StorageError.
func (s *Service) Record(ctx context.Context, key Key, score int, now time.Time) (*Change, error) {
	prior, err := s.repo.GetConceptMastery(ctx, key.UserID, key.Dimension, key.Concept)
	if err != nil {
		return nil, apperr.Storage("get concept mastery", err)
	}

	next := Update(prior, key, score, now, s.cfg)
	if err := s.repo.UpsertConceptMastery(ctx, next); err != nil {
		return nil, apperr.Storage("upsert concept mastery", err)
	}

	change := &Change{
		Key:           key,
		To:            next.MasteryLevel,
		PracticeCount: next.PracticeCount,
		Cold:          prior == nil,
	}
	if prior != nil {
		change.From = prior.MasteryLevel
	}

	s.logger.Debug("mastery updated",
		zap.String("user", key.UserID),
		zap.String("dimension", string(key.Dimension)),
		zap.String("concept", key.Concept),
		zap.Float64("from", change.From),
		zap.Float64("to", change.To),
		zap.Bool("cold", change.Cold))

	return change, nil
}

// RecordAll applies the same score to every concept touched by a session.
func (s *Service) RecordAll(ctx context.Context, userID string, dim dimension.Dimension, concepts []string, score int, now time.Time) ([]Change, error) {
	changes := make([]Change, 0, len(concepts))
	for _, c := range concepts {
		ch, err := s.Record(ctx, Key{UserID: userID, Dimension: dim, Concept: c}, score, now)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", c, err)
		}
		changes = append(changes, *ch)
	}
	return changes, nil
}
