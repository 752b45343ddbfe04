package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/thinkforge/internal/apperr"
	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo implements Repo for testing.
type fakeRepo struct {
	progress   map[dimension.Dimension]store.DimensionProgressRecord
	history    map[int][]store.PracticeRecord
	historyErr error
	upserts    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		progress: make(map[dimension.Dimension]store.DimensionProgressRecord),
		history:  make(map[int][]store.PracticeRecord),
	}
}

func (f *fakeRepo) GetDimensionProgress(_ context.Context, _ string, dim dimension.Dimension) (*store.DimensionProgressRecord, error) {
	rec, ok := f.progress[dim]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeRepo) UpsertDimensionProgress(_ context.Context, rec store.DimensionProgressRecord) error {
	f.upserts++
	f.progress[rec.Dimension] = rec
	return nil
}

func (f *fakeRepo) ListDimensionProgress(_ context.Context, _ string) ([]store.DimensionProgressRecord, error) {
	var out []store.DimensionProgressRecord
	for _, r := range f.progress {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRepo) LockDimensionProgress(_ context.Context, _ string, _ dimension.Dimension) error {
	return nil
}

func (f *fakeRepo) ListPracticeHistory(_ context.Context, _ string, _ dimension.Dimension, level int) ([]store.PracticeRecord, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history[level], nil
}

func TestEvaluate_ExampleScenario(t *testing.T) {
	repo := newFakeRepo()
	repo.history[1] = sessions(70, 72, 74)
	ev := NewEvaluator(repo, DefaultConfig(), nil)

	res, err := ev.Evaluate(context.Background(), "u1", dimension.CausalAnalysis, time.Now())
	require.NoError(t, err)

	assert.Equal(t, dimension.Level(1), res.From)
	assert.Equal(t, dimension.Level(2), res.To)
	assert.Equal(t, []dimension.Level{2}, res.Unlocked())
	assert.Equal(t, 2, res.Progress.CurrentLevel)
	assert.Equal(t, 23, res.Progress.ProgressPercentage)
	assert.Equal(t, [5]bool{true, true, false, false, false}, Unlocked(res.Progress.CurrentLevel))
	assert.Equal(t, store.LevelStats{QuestionsCompleted: 3, AverageScore: 72}, res.Progress.Levels[0])
	assert.Equal(t, 1, repo.upserts)
}

func TestEvaluate_RegressionDoesNotRelock(t *testing.T) {
	repo := newFakeRepo()
	repo.progress[dimension.CausalAnalysis] = store.DimensionProgressRecord{
		UserID: "u1", Dimension: dimension.CausalAnalysis, CurrentLevel: 4,
	}
	// Level 3 history now fails its own gate badly.
	repo.history[3] = sessions(10, 10, 10)
	ev := NewEvaluator(repo, DefaultConfig(), nil)

	res, err := ev.Evaluate(context.Background(), "u1", dimension.CausalAnalysis, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Progress.CurrentLevel)
	assert.Empty(t, res.Unlocked())
	assert.False(t, res.Recomputed)
}

func TestEvaluate_StatsRederivedEveryCall(t *testing.T) {
	repo := newFakeRepo()
	ev := NewEvaluator(repo, DefaultConfig(), nil)
	ctx := context.Background()

	repo.history[1] = sessions(50)
	res, err := ev.Evaluate(ctx, "u1", dimension.FallacyDetection, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.Progress.Levels[0].AverageScore)

	// A historical correction is picked up on the next evaluation.
	repo.history[1] = sessions(90, 90, 90)
	res, err = ev.Evaluate(ctx, "u1", dimension.FallacyDetection, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 90.0, res.Progress.Levels[0].AverageScore)
	assert.Equal(t, 3, res.Progress.Levels[0].QuestionsCompleted)
	assert.Equal(t, 2, res.Progress.CurrentLevel)
}

func TestEvaluate_InconsistentStateRecomputes(t *testing.T) {
	repo := newFakeRepo()
	repo.progress[dimension.PremiseChallenge] = store.DimensionProgressRecord{
		UserID: "u1", Dimension: dimension.PremiseChallenge, CurrentLevel: 9,
	}
	repo.history[1] = sessions(80, 80, 80)
	ev := NewEvaluator(repo, DefaultConfig(), nil)

	res, err := ev.Evaluate(context.Background(), "u1", dimension.PremiseChallenge, time.Now())
	require.NoError(t, err)
	assert.True(t, res.Recomputed)
	assert.Equal(t, 2, res.Progress.CurrentLevel)
}

func TestEvaluate_StorageErrorPropagates(t *testing.T) {
	repo := newFakeRepo()
	repo.historyErr = errors.New("connection refused")
	ev := NewEvaluator(repo, DefaultConfig(), nil)

	_, err := ev.Evaluate(context.Background(), "u1", dimension.CausalAnalysis, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrStorage))
	assert.Equal(t, 0, repo.upserts, "nothing may be written after a failed read")
}
