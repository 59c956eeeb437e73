// Package session keeps bearer-token sessions in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
)

const keyPrefix = "session:"

// ErrSessionNotFound is returned when a token is unknown or has expired.
var ErrSessionNotFound = errors.New("session not found")

// Store defines session operations used by the auth layer.
type Store interface {
	Create(ctx context.Context, identity models.Identity) (string, error)
	Get(ctx context.Context, token string) (models.Identity, error)
	Delete(ctx context.Context, token string) error
}

// RedisStore implements Store on top of a Redis client.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore creates a session store whose entries expire after ttl.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Create stores identity under a fresh opaque token.
func (s *RedisStore) Create(ctx context.Context, identity models.Identity) (string, error) {
	payload, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}

	token := uuid.NewString()
	if err := s.client.Set(ctx, keyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Get resolves a token to the identity it was issued for.
func (s *RedisStore) Get(ctx context.Context, token string) (models.Identity, error) {
	if token == "" {
		return models.Identity{}, ErrSessionNotFound
	}

	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Identity{}, ErrSessionNotFound
	}
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to read session: %w", err)
	}

	var identity models.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return models.Identity{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return identity, nil
}

// Delete removes a session. Deleting an unknown token is not an error.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
