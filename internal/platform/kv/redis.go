package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient creates a Redis client and verifies connectivity.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("platform/kv: ping: %w", err)
	}

	return client, nil
}

// RedisStore implements Store on top of a Redis client. Every write also
// publishes the changed key on ChangeChannel so listeners can invalidate
// derived state.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the value stored at key, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("platform/kv: get %s: %w", key, err)
	}
	return val, nil
}

// Set stores value at key and notifies subscribers.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("platform/kv: set %s: %w", key, err)
	}
	// Notification is best effort; a missed publish only delays cache expiry.
	_ = s.client.Publish(ctx, ChangeChannel, key).Err()
	return nil
}

// Subscribe listens for store-change notifications and invokes fn with the
// changed key until the context is cancelled.
func Subscribe(ctx context.Context, client *redis.Client, fn func(key string)) error {
	sub := client.Subscribe(ctx, ChangeChannel)
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			fn(msg.Payload)
		}
	}
}
