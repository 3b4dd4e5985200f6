// Package session tracks live sign-ins. A token is only honored while its
// session entry exists, so sign-out takes effect immediately even though the
// JWT itself stays cryptographically valid until expiry.
package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"transitdocs/internal/config"
)

const keyPrefix = "session:"

// Store records which access tokens correspond to live sessions.
type Store interface {
	// Save registers token as a live session for userID, expiring after ttl.
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	// Exists reports whether token belongs to a live session.
	Exists(ctx context.Context, token string) (bool, error)
	// Delete tears the session down. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}

// redisStore is the Redis-backed Store used in production.
type redisStore struct {
	client *redis.Client
}

// NewRedis connects to Redis and verifies connectivity before returning the store.
func NewRedis(cfg config.RedisConfig) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &redisStore{client: client}, nil
}

func (s *redisStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+token, userID, ttl).Err()
}

func (s *redisStore) Exists(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}
