package mastery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/thinkforge/internal/apperr"
	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/store"
)

// mockMasteryRepo implements store.MasteryRepo for testing.
type mockMasteryRepo struct {
	rows      map[string]store.ConceptMasteryRecord
	getErr    error
	upsertErr error
}

func newMockRepo() *mockMasteryRepo {
	return &mockMasteryRepo{rows: make(map[string]store.ConceptMasteryRecord)}
}

func rowKey(user string, dim dimension.Dimension, concept string) string {
	return user + "|" + string(dim) + "|" + concept
}

func (m *mockMasteryRepo) GetConceptMastery(_ context.Context, userID string, dim dimension.Dimension, concept string) (*store.ConceptMasteryRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	rec, ok := m.rows[rowKey(userID, dim, concept)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *mockMasteryRepo) UpsertConceptMastery(_ context.Context, rec store.ConceptMasteryRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.rows[rowKey(rec.UserID, rec.Dimension, rec.ConceptKey)] = rec
	return nil
}

func (m *mockMasteryRepo) ListConceptMasteries(_ context.Context, userID string) ([]store.ConceptMasteryRecord, error) {
	var out []store.ConceptMasteryRecord
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestService_Record_ColdThenWarm(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, DefaultConfig(), nil)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	ch, err := svc.Record(ctx, testKey, 50, now)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !ch.Cold || !near(ch.To, 0.5) {
		t.Errorf("first change = %+v, want cold 0.5", ch)
	}

	ch, err = svc.Record(ctx, testKey, 90, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if ch.Cold || !near(ch.From, 0.5) || !near(ch.To, 0.62) || ch.PracticeCount != 2 {
		t.Errorf("second change = %+v", ch)
	}

	stored := repo.rows[rowKey(testKey.UserID, testKey.Dimension, testKey.Concept)]
	if !stored.LastPracticedAt.Equal(now.Add(time.Hour)) {
		t.Errorf("LastPracticedAt = %v", stored.LastPracticedAt)
	}
}

func TestService_Record_StorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("disk I/O error")

	repo := newMockRepo()
	repo.getErr = cause
	if _, err := NewService(repo, DefaultConfig(), nil).Record(ctx, testKey, 80, time.Now()); !errors.Is(err, apperr.ErrStorage) || !errors.Is(err, cause) {
		t.Errorf("get failure: err = %v", err)
	}

	repo = newMockRepo()
	repo.upsertErr = cause
	if _, err := NewService(repo, DefaultConfig(), nil).Record(ctx, testKey, 80, time.Now()); !errors.Is(err, apperr.ErrStorage) {
		t.Errorf("upsert failure: err = %v", err)
	}
}

func TestService_RecordAll(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, DefaultConfig(), nil)
	concepts := []string{"ca-confounders", "ca-causal-chains"}

	changes, err := svc.RecordAll(context.Background(), "u1", dimension.CausalAnalysis, concepts, 70, time.Now())
	if err != nil {
		t.Fatalf("record all: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("len(changes) = %d, want 2", len(changes))
	}
	if len(repo.rows) != 2 {
		t.Errorf("stored rows = %d, want 2", len(repo.rows))
	}
}
