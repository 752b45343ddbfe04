// Package cache keeps ranked recommendations in Redis between submissions.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/thinkforge/internal/recommend"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds the Redis connection and cache policy.
type Config struct {
	Enabled     bool          `yaml:"enabled"`
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	TTL         time.Duration `yaml:"ttl"`
	Prefix      string        `yaml:"prefix"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// DefaultConfig returns a disabled cache pointing at a local Redis.
func DefaultConfig() Config {
	return Config{
		Addr:        "localhost:6379",
		TTL:         5 * time.Minute,
		Prefix:      "thinkforge:rec:",
		DialTimeout: 2 * time.Second,
	}
}

// NewClient builds a Redis client. It does not connect until first use.
func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.DialTimeout,
		WriteTimeout: cfg.DialTimeout,
		MaxRetries:   1,
	})
}

// Source computes recommendations on a cache miss.
type Source interface {
	Next(ctx context.Context, userID string) (*recommend.Recommendation, error)
	TopN(ctx context.Context, userID string, n int) ([]recommend.Recommendation, error)
}

// Recommendations is a read-through cache in front of a Source. All entries
// for a user live in one hash so a submission drops them with a single DEL.
// Redis failures are logged and fall through to the source.
type Recommendations struct {
	client redis.UniversalClient
	inner  Source
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// New wraps inner with a cache backed by client.
func New(client redis.UniversalClient, inner Source, cfg Config, logger *zap.Logger) *Recommendations {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recommendations{
		client: client,
		inner:  inner,
		ttl:    cfg.TTL,
		prefix: cfg.Prefix,
		logger: logger,
	}
}

// Key returns the hash holding a user's cached entries.
func (c *Recommendations) Key(userID string) string {
	return c.prefix + userID
}

// Next returns the cached best recommendation or computes it.
func (c *Recommendations) Next(ctx context.Context, userID string) (*recommend.Recommendation, error) {
	var rec recommend.Recommendation
	if c.lookup(ctx, userID, "next", &rec) {
		return &rec, nil
	}
	got, err := c.inner.Next(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, userID, "next", got)
	return got, nil
}

// TopN returns the cached top-n list or computes it.
func (c *Recommendations) TopN(ctx context.Context, userID string, n int) ([]recommend.Recommendation, error) {
	field := fmt.Sprintf("top:%d", n)
	var recs []recommend.Recommendation
	if c.lookup(ctx, userID, field, &recs) {
		return recs, nil
	}
	got, err := c.inner.TopN(ctx, userID, n)
	if err != nil {
		return nil, err
	}
	c.store(ctx, userID, field, got)
	return got, nil
}

// Invalidate drops every cached entry for the user.
func (c *Recommendations) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.Key(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate recommendations: %w", err)
	}
	return nil
}

func (c *Recommendations) lookup(ctx context.Context, userID, field string, dest any) bool {
	data, err := c.client.HGet(ctx, c.Key(userID), field).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.logger.Warn("recommendation cache read failed", zap.String("user", userID), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("recommendation cache entry unreadable", zap.String("user", userID), zap.Error(err))
		return false
	}
	return true
}

func (c *Recommendations) store(ctx context.Context, userID, field string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("recommendation cache encode failed", zap.Error(err))
		return
	}
	key := c.Key(userID)
	_, err = c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, field, data)
		p.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		c.logger.Warn("recommendation cache write failed", zap.String("user", userID), zap.Error(err))
	}
}
