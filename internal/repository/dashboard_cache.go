package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

const (
	snapshotKeyPrefix = "dashboard:snapshot:"
	uiStateKeyPrefix  = "dashboard:ui:"
)

// SnapshotCache stores per-session snapshots in redis so that any gateway instance can warm a
// session without waiting for the helpdesk API.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache builds the cache; entries expire after ttl.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

// Load returns the cached snapshot of key.
func (c *SnapshotCache) Load(ctx context.Context, key string) (domain.Snapshot, bool, error) {
	var snap domain.Snapshot
	ok, err := getJSON(ctx, c.client, snapshotKeyPrefix+key, &snap)
	return snap, ok, err
}

// Save caches snap under key.
func (c *SnapshotCache) Save(ctx context.Context, key string, snap domain.Snapshot) error {
	return setJSON(ctx, c.client, snapshotKeyPrefix+key, snap, c.ttl)
}

// UIStateStore keeps the UI state record of each session in redis.
type UIStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUIStateStore builds the store; states expire after ttl of inactivity.
func NewUIStateStore(client *redis.Client, ttl time.Duration) *UIStateStore {
	return &UIStateStore{client: client, ttl: ttl}
}

// Load returns the persisted state of key.
func (s *UIStateStore) Load(ctx context.Context, key string) (domain.UIState, bool, error) {
	var state domain.UIState
	ok, err := getJSON(ctx, s.client, uiStateKeyPrefix+key, &state)
	return state, ok, err
}

// Save persists state under key.
func (s *UIStateStore) Save(ctx context.Context, key string, state domain.UIState) error {
	return setJSON(ctx, s.client, uiStateKeyPrefix+key, state, s.ttl)
}

func getJSON(ctx context.Context, client *redis.Client, key string, out any) (bool, error) {
	raw, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func setJSON(ctx context.Context, client *redis.Client, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
