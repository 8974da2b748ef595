package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// A claim that is never completed (crashed writer) frees the key after this.
	pendingTTL    = time.Minute
	pendingMarker = "pending"
)

// IdempotencyStore binds client-supplied Idempotency-Key values to the sale
// they created. Key format: idempotency:sale:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Claim reserves key with a pending marker. A lost claim returns the bound
// sale id, or "" while the winner has not completed yet.
func (s *IdempotencyStore) Claim(ctx context.Context, key string) (bool, string, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), pendingMarker, pendingTTL).Result()
	if err != nil {
		return false, "", fmt.Errorf("idempotency claim: %w", err)
	}
	if ok {
		return true, "", nil
	}

	id, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) || id == pendingMarker {
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("idempotency claim: %w", err)
	}
	return false, id, nil
}

// Complete overwrites the pending marker with saleID for the full TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, key, saleID string) error {
	if err := s.client.Set(ctx, s.key(key), saleID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release deletes the claim so the client can retry.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(k string) string {
	return "idempotency:sale:" + k
}
