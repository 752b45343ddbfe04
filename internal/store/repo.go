package store

import (
	"context"
	"time"

	"github.com/abhisek/thinkforge/internal/dimension"
)

// ConceptMasteryRecord is the persisted mastery of one concept for one user.
type ConceptMasteryRecord struct {
	UserID          string
	Dimension       dimension.Dimension
	ConceptKey      string
	MasteryLevel    float64
	PracticeCount   int
	LastPracticedAt time.Time
}

// LevelStats aggregates the practice history of a single level.
type LevelStats struct {
	QuestionsCompleted int
	AverageScore       float64
}

// DimensionProgressRecord is the persisted progress of a user in a dimension.
// Level unlock flags are not stored: level k is unlocked iff k <= CurrentLevel.
type DimensionProgressRecord struct {
	UserID             string
	Dimension          dimension.Dimension
	CurrentLevel       int
	Levels             [5]LevelStats // index 0 = level 1
	ProgressPercentage int
	UpdatedAt          time.Time
}

// PracticeRecord is one completed practice session in a user's history.
type PracticeRecord struct {
	ID              string
	UserID          string
	Dimension       dimension.Dimension
	Level           int
	Score           int
	Activity        string
	DurationSeconds int
	Concepts        []string
	PracticedAt     time.Time
}

// ContentRecord is a concept-content item of the content catalog.
type ContentRecord struct {
	ID         string
	ConceptKey string
	Dimension  dimension.Dimension
	Level      int
	Difficulty int
	Title      string
	Published  bool
	ViewCount  int
	SortOrder  int
}

// ContentFilter restricts ListContent. Zero values disable a restriction.
type ContentFilter struct {
	PublishedOnly bool
	MaxLevel      int
	Dimensions    []dimension.Dimension
	ExcludeIDs    []string
}

// DailyAssignmentRecord is the content item assigned to a user for a day.
type DailyAssignmentRecord struct {
	ID          string
	UserID      string
	Date        string // YYYY-MM-DD
	ContentID   string
	Dimension   dimension.Dimension
	Level       int
	Completed   bool
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// AchievementRecord is a catalog entry. Criteria holds the JSON-encoded
// criterion descriptor.
type AchievementRecord struct {
	ID          string
	Name        string
	Description string
	Category    string
	Criteria    []byte
	SortOrder   int
}

// GrantRecord is a write-once ledger row: the user unlocked the achievement.
type GrantRecord struct {
	ID            string
	UserID        string
	AchievementID string
	GrantedAt     time.Time
}

// MasteryRepo persists per-concept mastery.
type MasteryRepo interface {
	// GetConceptMastery returns the record, or nil if the concept was never practiced.
	GetConceptMastery(ctx context.Context, userID string, dim dimension.Dimension, conceptKey string) (*ConceptMasteryRecord, error)
	UpsertConceptMastery(ctx context.Context, rec ConceptMasteryRecord) error
	ListConceptMasteries(ctx context.Context, userID string) ([]ConceptMasteryRecord, error)
}

// ProgressRepo persists per-dimension progress.
type ProgressRepo interface {
	// GetDimensionProgress returns the record, or nil if none exists.
	GetDimensionProgress(ctx context.Context, userID string, dim dimension.Dimension) (*DimensionProgressRecord, error)
	UpsertDimensionProgress(ctx context.Context, rec DimensionProgressRecord) error
	ListDimensionProgress(ctx context.Context, userID string) ([]DimensionProgressRecord, error)

	// LockDimensionProgress serializes concurrent writers of the (user,
	// dimension) row for the rest of the enclosing transaction.
	LockDimensionProgress(ctx context.Context, userID string, dim dimension.Dimension) error
}

// PracticeRepo provides the practice history.
type PracticeRepo interface {
	AppendPractice(ctx context.Context, rec PracticeRecord) error
	ListPracticeHistory(ctx context.Context, userID string, dim dimension.Dimension, level int) ([]PracticeRecord, error)
	ListUserPractice(ctx context.Context, userID string) ([]PracticeRecord, error)
	// RecentPractice returns the user's last n sessions, newest first.
	RecentPractice(ctx context.Context, userID string, n int) ([]PracticeRecord, error)
	// ActiveUsers returns users with at least one session at or after since.
	ActiveUsers(ctx context.Context, since time.Time) ([]string, error)
}

// ContentRepo is the content catalog.
type ContentRepo interface {
	// ListContent returns matching items in catalog order.
	ListContent(ctx context.Context, f ContentFilter) ([]ContentRecord, error)
	GetContent(ctx context.Context, id string) (*ContentRecord, error)
	UpsertContent(ctx context.Context, rec ContentRecord) error
	IncrementViews(ctx context.Context, id string) error
}

// DailyRepo persists daily assignments.
type DailyRepo interface {
	// GetDailyAssignment returns the assignment for the day, or nil.
	GetDailyAssignment(ctx context.Context, userID, date string) (*DailyAssignmentRecord, error)
	// CreateDailyAssignment inserts rec unless the (user, date) pair already
	// has an assignment, and returns whichever row is stored.
	CreateDailyAssignment(ctx context.Context, rec DailyAssignmentRecord) (*DailyAssignmentRecord, error)
	// ReplaceDailyAssignment points the day's assignment at new content and
	// resets its completion.
	ReplaceDailyAssignment(ctx context.Context, rec DailyAssignmentRecord) error
	CompleteDailyAssignment(ctx context.Context, userID, date string, at time.Time) error
	// LatestAssignment returns the user's most recent assignment, or nil.
	LatestAssignment(ctx context.Context, userID string) (*DailyAssignmentRecord, error)
	CompletedContentIDs(ctx context.Context, userID string) ([]string, error)
}

// AchievementRepo holds the achievement catalog and the grant ledger.
type AchievementRepo interface {
	ListAchievements(ctx context.Context) ([]AchievementRecord, error)
	UpsertAchievement(ctx context.Context, rec AchievementRecord) error
	// GetAchievementGrant returns the grant, or nil if not yet unlocked.
	GetAchievementGrant(ctx context.Context, userID, achievementID string) (*GrantRecord, error)
	// InsertAchievementGrant writes the grant once. It reports false when the
	// pair was already granted.
	InsertAchievementGrant(ctx context.Context, rec GrantRecord) (bool, error)
	ListGrants(ctx context.Context, userID string) ([]GrantRecord, error)
}

// Repos bundles every repository bound to one connection or transaction.
type Repos interface {
	MasteryRepo
	ProgressRepo
	PracticeRepo
	ContentRepo
	DailyRepo
	AchievementRepo
}
