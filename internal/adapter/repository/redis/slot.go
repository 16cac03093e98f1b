package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Slot implements kv.Slot using Redis string keys.
type Slot struct {
	client *redis.Client
	prefix string
}

// NewSlot creates a new Slot. Keys are stored as prefix+key.
func NewSlot(client *redis.Client, prefix string) *Slot {
	return &Slot{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves a value by key.
func (s *Slot) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores a value without expiry.
func (s *Slot) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}
