// Package scheduler pre-assigns daily content to recently active learners.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/thinkforge/internal/daily"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Config controls the daily pre-assignment job.
type Config struct {
	// At is the UTC time of day the job runs, as HH:MM.
	At string `yaml:"at"`
	// ActiveWithin limits the job to learners who practiced this recently.
	ActiveWithin time.Duration `yaml:"active_within"`
}

// DefaultConfig runs shortly after midnight UTC for the past week's learners.
func DefaultConfig() Config {
	return Config{At: "00:05", ActiveWithin: 7 * 24 * time.Hour}
}

// Assigner is the part of the engine the job drives.
type Assigner interface {
	ActiveUsers(ctx context.Context, since time.Time) ([]string, error)
	Today(ctx context.Context, userID string, at time.Time) (*daily.Assignment, error)
}

// Scheduler runs the daily job.
type Scheduler struct {
	scheduler *gocron.Scheduler
	assigner  Assigner
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a scheduler. Call Start to begin running jobs.
func New(assigner Assigner, cfg Config, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		assigner:  assigner,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the daily job and starts the scheduler without blocking.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(s.cfg.At).Do(func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.logger.Error("daily pre-assignment failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule daily job at %q: %w", s.cfg.At, err)
	}
	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", zap.String("at", s.cfg.At))
	return nil
}

// Stop terminates the scheduler.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunOnce assigns today's content to every recently active learner and
// returns how many were assigned. One learner's failure does not stop the
// others; the last error is returned.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	now := s.now()
	users, err := s.assigner.ActiveUsers(ctx, now.Add(-s.cfg.ActiveWithin))
	if err != nil {
		return 0, fmt.Errorf("list active users: %w", err)
	}

	var (
		assigned int
		lastErr  error
	)
	for _, u := range users {
		if _, err := s.assigner.Today(ctx, u, now); err != nil {
			s.logger.Warn("daily pre-assignment skipped user", zap.String("user", u), zap.Error(err))
			lastErr = err
			continue
		}
		assigned++
	}
	s.logger.Info("daily pre-assignment done",
		zap.Int("users", len(users)), zap.Int("assigned", assigned))
	return assigned, lastErr
}
