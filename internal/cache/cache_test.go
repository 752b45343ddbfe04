package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/recommend"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	next  int
	top   int
	err   error
	items []recommend.Recommendation
}

func (s *countingSource) Next(context.Context, string) (*recommend.Recommendation, error) {
	s.next++
	if s.err != nil {
		return nil, s.err
	}
	rec := recommend.Starter(recommend.DefaultConfig())
	return &rec, nil
}

func (s *countingSource) TopN(_ context.Context, _ string, n int) ([]recommend.Recommendation, error) {
	s.top++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.items) > n {
		return s.items[:n], nil
	}
	return s.items, nil
}

// unreachable points at a port nothing listens on.
func unreachable() Config {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:1"
	cfg.DialTimeout = 50 * time.Millisecond
	return cfg
}

func TestRecommendations_FallsBackWhenRedisDown(t *testing.T) {
	cfg := unreachable()
	client := NewClient(cfg)
	t.Cleanup(func() { _ = client.Close() })

	src := &countingSource{items: []recommend.Recommendation{{Dimension: dimension.PremiseChallenge}}}
	c := New(client, src, cfg, nil)
	ctx := context.Background()

	next, err := c.Next(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, dimension.Starter, next.Dimension)

	top, err := c.TopN(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	assert.Equal(t, 1, src.next)
	assert.Equal(t, 1, src.top)

	assert.Error(t, c.Invalidate(ctx, "u1"))
}

func TestRecommendations_SourceErrorPropagates(t *testing.T) {
	cfg := unreachable()
	client := NewClient(cfg)
	t.Cleanup(func() { _ = client.Close() })

	boom := errors.New("storage down")
	c := New(client, &countingSource{err: boom}, cfg, nil)

	_, err := c.Next(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	_, err = c.TopN(context.Background(), "u1", 2)
	assert.ErrorIs(t, err, boom)
}

func TestRecommendations_Key(t *testing.T) {
	cfg := DefaultConfig()
	c := New(NewClient(cfg), &countingSource{}, cfg, nil)
	assert.Equal(t, "thinkforge:rec:alice", c.Key("alice"))
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client, Config) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := DefaultConfig()
	cfg.Addr = mr.Addr()
	client := NewClient(cfg)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client, cfg
}

func TestRecommendations_ServesHitsFromRedis(t *testing.T) {
	mr, client, cfg := newMiniredis(t)
	src := &countingSource{items: []recommend.Recommendation{
		{Dimension: dimension.FallacyDetection, Score: 0.8, Priority: recommend.PriorityHigh},
		{Dimension: dimension.PremiseChallenge, Score: 0.5, Priority: recommend.PriorityMedium},
	}}
	c := New(client, src, cfg, nil)
	ctx := context.Background()

	first, err := c.Next(ctx, "u1")
	require.NoError(t, err)
	second, err := c.Next(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, src.next, "second read is a cache hit")
	assert.Equal(t, first, second)

	top, err := c.TopN(ctx, "u1", 2)
	require.NoError(t, err)
	again, err := c.TopN(ctx, "u1", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, src.top)
	assert.Equal(t, top, again)

	// A different N is its own entry.
	_, err = c.TopN(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, src.top)

	key := c.Key("u1")
	fields, err := mr.HKeys(key)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"next", "top:2", "top:1"}, fields)
	assert.Equal(t, cfg.TTL, mr.TTL(key))
	assert.Contains(t, mr.HGet(key, "next"), string(dimension.Starter))
}

func TestRecommendations_InvalidateDropsEveryEntry(t *testing.T) {
	mr, client, cfg := newMiniredis(t)
	src := &countingSource{items: []recommend.Recommendation{{Dimension: dimension.PremiseChallenge}}}
	c := New(client, src, cfg, nil)
	ctx := context.Background()

	_, err := c.Next(ctx, "u1")
	require.NoError(t, err)
	_, err = c.TopN(ctx, "u1", 3)
	require.NoError(t, err)
	_, err = c.Next(ctx, "u2")
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx, "u1"))
	assert.False(t, mr.Exists(c.Key("u1")))
	assert.True(t, mr.Exists(c.Key("u2")), "other learners keep their entries")

	_, err = c.Next(ctx, "u1")
	require.NoError(t, err)
	_, err = c.TopN(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, src.next)
	assert.Equal(t, 2, src.top)
}

func TestRecommendations_ExpiresAfterTTL(t *testing.T) {
	mr, client, cfg := newMiniredis(t)
	src := &countingSource{}
	c := New(client, src, cfg, nil)
	ctx := context.Background()

	_, err := c.Next(ctx, "u1")
	require.NoError(t, err)
	mr.FastForward(cfg.TTL + time.Second)
	_, err = c.Next(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, src.next)
}

func TestRecommendations_UnreadableEntryFallsThrough(t *testing.T) {
	mr, client, cfg := newMiniredis(t)
	src := &countingSource{}
	c := New(client, src, cfg, nil)

	mr.HSet(c.Key("u1"), "next", "{not json")
	next, err := c.Next(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, dimension.Starter, next.Dimension)
	assert.Equal(t, 1, src.next)
}
