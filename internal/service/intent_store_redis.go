package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
)

type RedisIntentStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisIntentStore(client redis.UniversalClient, prefix string) *RedisIntentStore {
	if prefix == "" {
		prefix = "intent"
	}
	return &RedisIntentStore{client: client, prefix: prefix}
}

func (s *RedisIntentStore) key(id string) string {
	return fmt.Sprintf("%s:%s", s.prefix, id)
}

func (s *RedisIntentStore) Save(ctx context.Context, intent *domain.Intent, ttl time.Duration) error {
	if s.client == nil || ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(intent)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(intent.ID), raw, ttl).Err()
}

func (s *RedisIntentStore) Get(ctx context.Context, id string) (*domain.Intent, error) {
	if s.client == nil {
		return nil, ErrIntentNotFound
	}
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrIntentNotFound
	}
	if err != nil {
		return nil, err
	}
	var intent domain.Intent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (s *RedisIntentStore) Delete(ctx context.Context, id string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, s.key(id)).Err()
}
