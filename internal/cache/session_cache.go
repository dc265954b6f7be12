package cache

import (
	"codepair/internal/model"
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const activeListKey = "sessions:active"

// SessionCache handles Redis operations for the lobby's active-session list.
// The list is a projection only; Mongo stays authoritative.
type SessionCache interface {
	SetActiveList(ctx context.Context, views []*model.SessionView) error
	GetActiveList(ctx context.Context) ([]*model.SessionView, error)
	// InvalidateActiveList drops the cached list after any lifecycle
	// transition so the next lobby read hits the store.
	InvalidateActiveList(ctx context.Context) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    15 * time.Second, // Short TTL; the lobby tolerates slight staleness
	}
}

func (c *sessionCache) SetActiveList(ctx context.Context, views []*model.SessionView) error {
	data, err := json.Marshal(views)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, activeListKey, data, c.ttl).Err()
}

func (c *sessionCache) GetActiveList(ctx context.Context) ([]*model.SessionView, error) {
	data, err := c.client.Get(ctx, activeListKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var views []*model.SessionView
	if err := json.Unmarshal([]byte(data), &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *sessionCache) InvalidateActiveList(ctx context.Context) error {
	return c.client.Del(ctx, activeListKey).Err()
}
