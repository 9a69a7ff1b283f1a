package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"stylemate/internal/domain"
)

const redisKeyPrefix = "outfits:job:"

// RedisStore keeps each job record as a single JSON document in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing go-redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.JobRecord, error) {
	raw, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("jobstore: redis get: %w", err)
	}
	var rec domain.JobRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("jobstore: decode record %s: %w", id, err)
	}
	return &rec, nil
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, rec *domain.JobRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("jobstore: encode record %s: %w", rec.ID, err)
	}
	if err := s.client.Set(ctx, redisKey(rec.ID), raw, 0).Err(); err != nil {
		return fmt.Errorf("jobstore: redis set: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
