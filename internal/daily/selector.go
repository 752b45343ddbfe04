package daily

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/thinkforge/internal/apperr"
	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DateLayout is the calendar-day key of an assignment.
const DateLayout = "2006-01-02"

// Repo is the persistence the selector needs.
type Repo interface {
	store.ContentRepo
	store.DailyRepo
	RecentPractice(ctx context.Context, userID string, n int) ([]store.PracticeRecord, error)
}

// Assignment is a day's assignment together with its content item.
type Assignment struct {
	store.DailyAssignmentRecord
	Content store.ContentRecord
	// Rerolled is set when a completed assignment was replaced.
	Rerolled bool
}

// Selector picks one content item per learner per day.
type Selector struct {
	repo   Repo
	cfg    Config
	logger *zap.Logger
}

// NewSelector creates a Selector over repo.
func NewSelector(repo Repo, cfg Config, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{repo: repo, cfg: cfg, logger: logger}
}

// Day returns the assignment key for t in UTC.
func Day(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Today returns the learner's assignment for the day of now, creating one
// if none exists. A completed assignment is re-rolled to a different item
// when one is available.
func (s *Selector) Today(ctx context.Context, userID string, now time.Time) (*Assignment, error) {
	if userID == "" {
		return nil, apperr.Invalid("user_id", userID, "must not be empty")
	}
	date := Day(now)

	existing, err := s.repo.GetDailyAssignment(ctx, userID, date)
	if err != nil {
		return nil, apperr.Storage("get daily assignment", err)
	}
	if existing != nil && !existing.Completed {
		return s.withContent(ctx, *existing)
	}

	replacing := ""
	if existing != nil {
		replacing = existing.ContentID
	}
	pick, err := s.Select(ctx, userID, replacing)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if pick == nil {
			return s.withContent(ctx, *existing)
		}
		rec := *existing
		rec.ContentID = pick.ID
		rec.Dimension = pick.Dimension
		rec.Level = pick.Level
		rec.Completed = false
		rec.CompletedAt = nil
		rec.CreatedAt = now
		if err := s.repo.ReplaceDailyAssignment(ctx, rec); err != nil {
			return nil, apperr.Storage("replace daily assignment", err)
		}
		if err := s.repo.IncrementViews(ctx, pick.ID); err != nil {
			return nil, apperr.Storage("increment views", err)
		}
		s.logger.Info("daily assignment rerolled",
			zap.String("user", userID),
			zap.String("date", date),
			zap.String("from", replacing),
			zap.String("to", pick.ID))
		return &Assignment{DailyAssignmentRecord: rec, Content: *pick, Rerolled: true}, nil
	}

	if pick == nil {
		return nil, apperr.NotFound("content", "published")
	}
	id := uuid.NewString()
	stored, err := s.repo.CreateDailyAssignment(ctx, store.DailyAssignmentRecord{
		ID:        id,
		UserID:    userID,
		Date:      date,
		ContentID: pick.ID,
		Dimension: pick.Dimension,
		Level:     pick.Level,
		CreatedAt: now,
	})
	if err != nil {
		return nil, apperr.Storage("create daily assignment", err)
	}
	if stored == nil {
		return nil, apperr.Storage("create daily assignment", errors.New("assignment missing after insert"))
	}
	if stored.ID != id {
		// Lost a race with a concurrent creator; theirs stands.
		return s.withContent(ctx, *stored)
	}
	if err := s.repo.IncrementViews(ctx, pick.ID); err != nil {
		return nil, apperr.Storage("increment views", err)
	}
	s.logger.Debug("daily assignment created",
		zap.String("user", userID),
		zap.String("date", date),
		zap.String("content", pick.ID))
	return &Assignment{DailyAssignmentRecord: *stored, Content: *pick}, nil
}

// Complete marks the day's assignment finished. Completing twice is a no-op.
func (s *Selector) Complete(ctx context.Context, userID string, day time.Time, at time.Time) (*store.DailyAssignmentRecord, error) {
	date := Day(day)
	existing, err := s.repo.GetDailyAssignment(ctx, userID, date)
	if err != nil {
		return nil, apperr.Storage("get daily assignment", err)
	}
	if existing == nil {
		return nil, apperr.NotFound("daily assignment", userID+"/"+date)
	}
	if existing.Completed {
		return existing, nil
	}
	if err := s.repo.CompleteDailyAssignment(ctx, userID, date, at); err != nil {
		return nil, apperr.Storage("complete daily assignment", err)
	}
	existing.Completed = true
	existing.CompletedAt = &at
	return existing, nil
}

// Select runs the selection chain and returns the chosen item, or nil when
// nothing qualifies. A fresh pick may fall back to already completed
// content; a re-roll (replacing set) never does.
func (s *Selector) Select(ctx context.Context, userID, replacing string) (*store.ContentRecord, error) {
	completed, err := s.repo.CompletedContentIDs(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("list completed content", err)
	}
	recent, err := s.repo.RecentPractice(ctx, userID, s.cfg.RecentSessions)
	if err != nil {
		return nil, apperr.Storage("list recent practice", err)
	}
	last, err := s.repo.LatestAssignment(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("latest assignment", err)
	}

	var lastDim dimension.Dimension
	if last != nil {
		lastDim = last.Dimension
	}
	exclude := completed
	if replacing != "" {
		exclude = append(append([]string(nil), completed...), replacing)
	}
	level := DerivedLevel(len(completed), s.cfg)
	preferred := preferredDimensions(recent, lastDim)

	steps := []struct {
		name   string
		filter store.ContentFilter
		ranked bool
	}{
		{"preferred", store.ContentFilter{PublishedOnly: true, MaxLevel: int(level), Dimensions: preferred, ExcludeIDs: exclude}, true},
		{"level", store.ContentFilter{PublishedOnly: true, MaxLevel: int(level), ExcludeIDs: exclude}, true},
		{"unfinished", store.ContentFilter{PublishedOnly: true, ExcludeIDs: exclude}, false},
		{"any", store.ContentFilter{PublishedOnly: true, ExcludeIDs: nonEmpty(replacing)}, false},
	}
	for _, step := range steps {
		if step.name == "preferred" && len(preferred) == 0 {
			continue
		}
		if step.name == "any" && replacing != "" {
			continue
		}
		items, err := s.repo.ListContent(ctx, step.filter)
		if err != nil {
			return nil, apperr.Storage("list content", err)
		}
		if len(items) == 0 {
			continue
		}
		if step.ranked {
			rank(items)
		}
		s.logger.Debug("daily content selected",
			zap.String("user", userID),
			zap.String("step", step.name),
			zap.Int("derived_level", int(level)),
			zap.String("content", items[0].ID))
		return &items[0], nil
	}
	return nil, nil
}

func (s *Selector) withContent(ctx context.Context, rec store.DailyAssignmentRecord) (*Assignment, error) {
	c, err := s.repo.GetContent(ctx, rec.ContentID)
	if err != nil {
		return nil, apperr.Storage("get content", err)
	}
	a := &Assignment{DailyAssignmentRecord: rec}
	if c != nil {
		a.Content = *c
	}
	return a, nil
}

func nonEmpty(id string) []string {
	if id == "" {
		return nil
	}
	return []string{id}
}
