package achievement

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/thinkforge/internal/apperr"
	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo implements Repo in memory.
type fakeRepo struct {
	catalog   []store.AchievementRecord
	grants    map[string]store.GrantRecord
	history   []store.PracticeRecord
	insertErr error
	inserts   int
}

func newFakeRepo(t *testing.T) *fakeRepo {
	t.Helper()
	defs, err := DefaultCatalog()
	require.NoError(t, err)
	r := &fakeRepo{grants: make(map[string]store.GrantRecord)}
	require.NoError(t, Seed(context.Background(), r, defs))
	return r
}

func (f *fakeRepo) ListAchievements(context.Context) ([]store.AchievementRecord, error) {
	return f.catalog, nil
}

func (f *fakeRepo) UpsertAchievement(_ context.Context, rec store.AchievementRecord) error {
	f.catalog = append(f.catalog, rec)
	return nil
}

func (f *fakeRepo) GetAchievementGrant(_ context.Context, userID, id string) (*store.GrantRecord, error) {
	g, ok := f.grants[userID+"|"+id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (f *fakeRepo) InsertAchievementGrant(_ context.Context, rec store.GrantRecord) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	key := rec.UserID + "|" + rec.AchievementID
	if _, ok := f.grants[key]; ok {
		return false, nil
	}
	f.inserts++
	f.grants[key] = rec
	return true, nil
}

func (f *fakeRepo) ListGrants(_ context.Context, userID string) ([]store.GrantRecord, error) {
	var out []store.GrantRecord
	for _, g := range f.grants {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListUserPractice(context.Context, string) ([]store.PracticeRecord, error) {
	return f.history, nil
}

func grantIDs(grants []Grant) []string {
	var ids []string
	for _, g := range grants {
		ids = append(ids, g.Achievement.ID)
	}
	return ids
}

func TestEvaluate_FirstSessionThenIdempotent(t *testing.T) {
	repo := newFakeRepo(t)
	repo.history = []store.PracticeRecord{session(0, 100, dimension.CausalAnalysis, ActivityPractice)}
	ev := NewEvaluator(repo, nil)

	grants, err := ev.Evaluate(context.Background(), "u1", now)
	require.NoError(t, err)
	ids := grantIDs(grants)
	assert.Contains(t, ids, "first-steps")
	assert.Contains(t, ids, "flawless")
	assert.Contains(t, ids, "consistent")
	assert.Contains(t, ids, "specialist")
	assert.NotContains(t, ids, "fallacy-hunter")

	inserted := repo.inserts
	again, err := ev.Evaluate(context.Background(), "u1", now)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Equal(t, inserted, repo.inserts, "granted achievements are not re-inserted")
}

func TestEvaluate_GrantsAreNeverRevoked(t *testing.T) {
	repo := newFakeRepo(t)
	repo.history = []store.PracticeRecord{session(0, 95, dimension.CausalAnalysis, ActivityPractice)}
	ev := NewEvaluator(repo, nil)

	_, err := ev.Evaluate(context.Background(), "u1", now)
	require.NoError(t, err)
	_, ok := repo.grants["u1|consistent"]
	require.True(t, ok)

	repo.history = append(repo.history, session(0, 10, dimension.CausalAnalysis, ActivityPractice))
	_, err = ev.Evaluate(context.Background(), "u1", now)
	require.NoError(t, err)
	_, ok = repo.grants["u1|consistent"]
	assert.True(t, ok)
}

func TestEvaluate_SkipsBadCriteria(t *testing.T) {
	repo := &fakeRepo{grants: make(map[string]store.GrantRecord)}
	repo.catalog = []store.AchievementRecord{
		{ID: "broken", Criteria: []byte(`{"type":"nope"}`)},
		{ID: "first-steps", Criteria: []byte(`{"type":"practice_count","threshold":1}`)},
	}
	repo.history = []store.PracticeRecord{session(0, 50, dimension.CausalAnalysis, ActivityPractice)}

	grants, err := NewEvaluator(repo, nil).Evaluate(context.Background(), "u1", now)
	require.NoError(t, err)
	assert.Equal(t, []string{"first-steps"}, grantIDs(grants))
}

func TestEvaluate_StorageError(t *testing.T) {
	repo := newFakeRepo(t)
	repo.history = []store.PracticeRecord{session(0, 50, dimension.CausalAnalysis, ActivityPractice)}
	repo.insertErr = errors.New("disk full")

	_, err := NewEvaluator(repo, nil).Evaluate(context.Background(), "u1", now)
	assert.ErrorIs(t, err, apperr.ErrStorage)
}
