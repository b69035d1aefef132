// Package redis stores sealed browser tokens in Redis with a TTL.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/staybook/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

// Open connects to Redis and verifies the connection with a ping.
func Open(ctx context.Context, addr, password string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// TokenRepository implements domain.TokenRepository on Redis. Keys expire
// on their own after ttl, so no purge is needed.
type TokenRepository struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewTokenRepository creates a Redis-backed TokenRepository.
func NewTokenRepository(client goredis.UniversalClient, ttl time.Duration) *TokenRepository {
	return &TokenRepository{
		client: client,
		prefix: "staybook:token:",
		ttl:    ttl,
	}
}

// Ping checks that the server is reachable.
func (r *TokenRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *TokenRepository) key(browserID string) string {
	return r.prefix + browserID
}

func (r *TokenRepository) Get(ctx context.Context, browserID string) ([]byte, error) {
	blob, err := r.client.Get(ctx, r.key(browserID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get browser token: %w", err)
	}
	return blob, nil
}

func (r *TokenRepository) Put(ctx context.Context, browserID string, blob []byte) error {
	if err := r.client.Set(ctx, r.key(browserID), blob, r.ttl).Err(); err != nil {
		return fmt.Errorf("set browser token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Delete(ctx context.Context, browserID string) error {
	if err := r.client.Del(ctx, r.key(browserID)).Err(); err != nil {
		return fmt.Errorf("delete browser token: %w", err)
	}
	return nil
}
