package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisPermissionCacheStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisPermissionCacheStore(client redis.UniversalClient, prefix string) *RedisPermissionCacheStore {
	if prefix == "" {
		prefix = "rbacperm"
	}
	return &RedisPermissionCacheStore{client: client, prefix: prefix}
}

func (s *RedisPermissionCacheStore) key(groupID uint) string {
	return fmt.Sprintf("%s:group:%d", s.prefix, groupID)
}

func (s *RedisPermissionCacheStore) Get(ctx context.Context, groupID uint) ([]string, bool, error) {
	if s.client == nil {
		return nil, false, nil
	}
	raw, err := s.client.Get(ctx, s.key(groupID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var codenames []string
	if err := json.Unmarshal(raw, &codenames); err != nil {
		return nil, false, err
	}
	return codenames, true, nil
}

func (s *RedisPermissionCacheStore) Set(ctx context.Context, groupID uint, codenames []string, ttl time.Duration) error {
	if s.client == nil || ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(codenames)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(groupID), raw, ttl).Err()
}

func (s *RedisPermissionCacheStore) InvalidateGroup(ctx context.Context, groupID uint) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, s.key(groupID)).Err()
}
