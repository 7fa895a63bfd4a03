package kv

import (
	"context"
	"errors"
	"fmt"

	pkgredis "github.com/maxicoffee/storefront/pkg/redis"
)

// RedisSlot persists slot documents in Redis under namespaced keys.
type RedisSlot struct {
	client *pkgredis.Client
}

func NewRedisSlot(client *pkgredis.Client) (*RedisSlot, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisSlot{client: client}, nil
}

func (s *RedisSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := s.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading slot %s: %w", key, err)
	}
	return []byte(payload), true, nil
}

func (s *RedisSlot) Set(ctx context.Context, key string, payload []byte) error {
	if err := s.client.Set(ctx, key, string(payload), 0); err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}

func (s *RedisSlot) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key); err != nil {
		return fmt.Errorf("deleting slot %s: %w", key, err)
	}
	return nil
}
