package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}

func TestIdempotencyStore_ReserveCompleteReplay(t *testing.T) {
	_, client := newTestClient(t)
	store := NewIdempotencyStore(client, time.Hour)
	ctx := context.Background()

	ok, id, err := store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, id)

	ok, id, err = store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok, "second reservation while in flight must fail")
	assert.Empty(t, id)

	require.NoError(t, store.Complete(ctx, "k1", "incident-1"))

	ok, id, err = store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "incident-1", id)
}

func TestIdempotencyStore_ReleaseAllowsRetry(t *testing.T) {
	_, client := newTestClient(t)
	store := NewIdempotencyStore(client, time.Hour)
	ctx := context.Background()

	ok, _, err := store.Reserve(ctx, "k2")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, store.Release(ctx, "k2"))

	ok, _, err = store.Reserve(ctx, "k2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdempotencyStore_KeysExpire(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewIdempotencyStore(client, time.Minute)
	ctx := context.Background()

	_, _, err := store.Reserve(ctx, "k3")
	require.NoError(t, err)
	require.NoError(t, store.Complete(ctx, "k3", "incident-3"))

	mr.FastForward(2 * time.Minute)

	ok, _, err := store.Reserve(ctx, "k3")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginLimiter_BlocksAfterMaxAttempts(t *testing.T) {
	mr, client := newTestClient(t)
	limiter := NewLoginLimiter(client, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _, err := limiter.Allow(ctx, "admin|10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be allowed", i+1)
	}

	ok, retry, err := limiter.Allow(ctx, "admin|10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))

	other, _, err := limiter.Allow(ctx, "admin|10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other, "limits are per subject")

	mr.FastForward(2 * time.Minute)
	ok, _, err = limiter.Allow(ctx, "admin|10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok, "window must reset")
}

func TestLoginLimiter_Reset(t *testing.T) {
	_, client := newTestClient(t)
	limiter := NewLoginLimiter(client, 1, time.Minute)
	ctx := context.Background()

	_, _, _ = limiter.Allow(ctx, "s")
	ok, _, _ := limiter.Allow(ctx, "s")
	require.False(t, ok)

	require.NoError(t, limiter.Reset(ctx, "s"))
	ok, _, err := limiter.Allow(ctx, "s")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdempotencyStore_AbandonedReservationExpiresEarly(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewIdempotencyStore(client, 24*time.Hour)
	ctx := context.Background()

	ok, _, err := store.Reserve(ctx, "abandoned")
	require.NoError(t, err)
	require.True(t, ok)
	assert.LessOrEqual(t, mr.TTL("idempotency:incident:abandoned"), inFlightTTL)

	mr.FastForward(inFlightTTL + time.Second)

	ok, _, err = store.Reserve(ctx, "abandoned")
	require.NoError(t, err)
	assert.True(t, ok, "a reservation nobody completed must not block retries for the full ttl")
}

func TestIdempotencyStore_CompleteExtendsToFullTTL(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewIdempotencyStore(client, 24*time.Hour)
	ctx := context.Background()

	_, _, err := store.Reserve(ctx, "done")
	require.NoError(t, err)
	require.NoError(t, store.Complete(ctx, "done", "incident-9"))

	mr.FastForward(time.Hour)

	ok, id, err := store.Reserve(ctx, "done")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "incident-9", id)
}

func TestLoginLimiter_RepairsCounterWithoutExpiry(t *testing.T) {
	mr, client := newTestClient(t)
	limiter := NewLoginLimiter(client, 2, time.Minute)
	ctx := context.Background()

	// A counter left without a TTL, e.g. after a failed EXPIRE.
	require.NoError(t, mr.Set("ratelimit:login:admin|10.0.0.9", "5"))

	ok, retry, err := limiter.Allow(ctx, "admin|10.0.0.9")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:login:admin|10.0.0.9"))

	mr.FastForward(2 * time.Minute)

	ok, _, err = limiter.Allow(ctx, "admin|10.0.0.9")
	require.NoError(t, err)
	assert.True(t, ok, "the lockout must end once the window passes")
}
