package progress

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisTracker(t *testing.T, ttl time.Duration) (*RedisTracker, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisTracker(client, ttl), mr
}

func TestRedisTrackerSetGet(t *testing.T) {
	tracker, _ := setupRedisTracker(t, time.Hour)
	ctx := context.Background()

	snap := Stamp(Snapshot{ID: "batch_1", Phase: PhaseSubmitting, Processed: 40, Total: 100})
	require.NoError(t, tracker.Set(ctx, snap))

	got, ok, err := tracker.Get(ctx, "batch_1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, PhaseSubmitting, got.Phase)
	assert.Equal(t, 40, got.Processed)
	assert.Equal(t, 100, got.Total)
	assert.NotEmpty(t, got.UpdatedAt)
}

func TestRedisTrackerMissing(t *testing.T) {
	tracker, _ := setupRedisTracker(t, time.Hour)

	_, ok, err := tracker.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisTrackerExpiry(t *testing.T) {
	tracker, mr := setupRedisTracker(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, tracker.Set(ctx, Snapshot{ID: "batch_2", Phase: PhaseCompleted}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := tracker.Get(ctx, "batch_2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryTrackerSetGet(t *testing.T) {
	tracker := NewMemoryTracker()
	ctx := context.Background()

	require.NoError(t, tracker.Set(ctx, Snapshot{ID: "batch_3", Phase: PhaseFailed, Message: "workflow unreachable"}))

	got, ok, err := tracker.Get(ctx, "batch_3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, PhaseFailed, got.Phase)
	assert.Equal(t, "workflow unreachable", got.Message)

	_, ok, err = tracker.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
