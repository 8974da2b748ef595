package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupIdempotencyStore(t *testing.T, ttl time.Duration) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewIdempotencyStore(client, ttl), mr
}

func TestIdempotencyStore_ClaimCompleteReplay(t *testing.T) {
	store, mr := setupIdempotencyStore(t, time.Hour)
	ctx := context.Background()

	claimed, _, err := store.Claim(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, pendingTTL, mr.TTL("idempotency:sale:k1"))

	claimed, id, err := store.Claim(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Empty(t, id, "pending claim must not expose a sale id")

	require.NoError(t, store.Complete(ctx, "k1", "sale-1"))
	assert.Equal(t, time.Hour, mr.TTL("idempotency:sale:k1"))

	claimed, id, err = store.Claim(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, "sale-1", id)
}

func TestIdempotencyStore_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	store, _ := setupIdempotencyStore(t, time.Hour)
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	var winners atomic.Int32
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, _, err := store.Claim(ctx, "k1")
			assert.NoError(t, err)
			if claimed {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestIdempotencyStore_ReleaseFreesKey(t *testing.T) {
	store, _ := setupIdempotencyStore(t, time.Hour)
	ctx := context.Background()

	_, _, err := store.Claim(ctx, "k1")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "k1"))

	claimed, _, err := store.Claim(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestIdempotencyStore_AbandonedClaimExpires(t *testing.T) {
	store, mr := setupIdempotencyStore(t, time.Hour)
	ctx := context.Background()

	_, _, err := store.Claim(ctx, "k1")
	require.NoError(t, err)

	mr.FastForward(2 * pendingTTL)

	claimed, _, err := store.Claim(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestIdempotencyStore_CompletedKeyExpires(t *testing.T) {
	store, mr := setupIdempotencyStore(t, time.Minute*5)
	ctx := context.Background()

	_, _, err := store.Claim(ctx, "k1")
	require.NoError(t, err)
	require.NoError(t, store.Complete(ctx, "k1", "sale-1"))

	mr.FastForward(10 * time.Minute)

	claimed, _, err := store.Claim(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestIdempotencyStore_DefaultTTL(t *testing.T) {
	store, _ := setupIdempotencyStore(t, 0)
	assert.Equal(t, defaultIdempotencyTTL, store.ttl)
}

func TestConnect_PingsServer(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, Ping(client)(context.Background()))
}
