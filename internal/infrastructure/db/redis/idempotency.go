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
	// inFlightTTL bounds how long an unfinished request holds its key.
	inFlightTTL = 2 * time.Minute
)

// inFlight marks a key whose first request has not finished yet.
const inFlight = ""

// IdempotencyStore guards incident submissions with client-chosen keys.
// Key format: idempotency:incident:<key>
type IdempotencyStore struct {
	client      *redis.Client
	ttl         time.Duration
	inFlightTTL time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore. Completed keys expire
// after ttl; reservations that are never completed expire much sooner.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl, inFlightTTL: min(inFlightTTL, ttl)}
}

// Reserve claims key with SET NX. When the key is already held it returns
// false and the stored incident id, which is empty while in flight.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, string, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), inFlight, s.inFlightTTL).Result()
	if err != nil {
		return false, "", fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return true, "", nil
	}

	id, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; try once more.
		ok, err = s.client.SetNX(ctx, s.key(key), inFlight, s.inFlightTTL).Result()
		if err != nil {
			return false, "", fmt.Errorf("idempotency reserve: %w", err)
		}
		return ok, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("idempotency lookup: %w", err)
	}
	return false, id, nil
}

// Complete records the incident created for key and extends it to the full ttl.
func (s *IdempotencyStore) Complete(ctx context.Context, key, incidentID string) error {
	return s.client.Set(ctx, s.key(key), incidentID, s.ttl).Err()
}

// Release drops a reservation so the client can retry.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *IdempotencyStore) key(k string) string {
	return "idempotency:incident:" + k
}
