package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	mountainKeyPrefix     = "mountain:"
	mountainListKeyPrefix = "mountains:list:"
)

// CachedMountainReadStore is a read-through cache over the mountain catalog.
// Redis failures degrade to the underlying store.
type CachedMountainReadStore struct {
	next   queries.MountainReadStore
	client *redis.Client
	ttl    time.Duration
}

func NewCachedMountainReadStore(next queries.MountainReadStore, client *redis.Client, ttl time.Duration) *CachedMountainReadStore {
	return &CachedMountainReadStore{
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

func (s *CachedMountainReadStore) FindByID(ctx context.Context, db query.DBTX, id uuid.UUID) (*queries.MountainView, error) {
	key := mountainKeyPrefix + id.String()

	var view queries.MountainView
	if s.get(ctx, key, &view) {
		return &view, nil
	}

	found, err := s.next.FindByID(ctx, db, id)
	if err != nil {
		return nil, err
	}
	s.set(ctx, key, found)
	return found, nil
}

func (s *CachedMountainReadStore) List(ctx context.Context, db query.DBTX, difficulty *string) ([]*queries.MountainView, error) {
	key := mountainListKeyPrefix + "all"
	if difficulty != nil {
		key = mountainListKeyPrefix + *difficulty
	}

	var views []*queries.MountainView
	if s.get(ctx, key, &views) {
		return views, nil
	}

	views, err := s.next.List(ctx, db, difficulty)
	if err != nil {
		return nil, err
	}
	s.set(ctx, key, views)
	return views, nil
}

func (s *CachedMountainReadStore) get(ctx context.Context, key string, dst any) bool {
	if s.client == nil {
		return false
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("catalog cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.Warn("catalog cache entry is corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (s *CachedMountainReadStore) set(ctx context.Context, key string, v any) {
	if s.client == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		slog.Warn("catalog cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		slog.Warn("catalog cache write failed", "key", key, "error", err)
	}
}
