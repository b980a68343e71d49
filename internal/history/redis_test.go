package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/racecoord/internal/orchestration"
)

func setupTestRedis(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func record(id string, o orchestration.Outcome) Record {
	return NewRecord(id, 1, "filtered", o, 40*time.Millisecond)
}

func TestNewRecord(t *testing.T) {
	t.Parallel()
	rec := NewRecord("race-1", 3, "unfiltered", orchestration.SuccessOutcome(500*time.Millisecond, "task3"), time.Second)
	assert.Equal(t, "success", rec.Outcome)
	assert.Equal(t, int64(500), rec.Status)
	assert.Equal(t, "task3", rec.Label)
	assert.Equal(t, 3, rec.Round)

	timedOut := NewRecord("race-2", 1, "filtered", orchestration.TimedOut(), time.Second)
	assert.Equal(t, orchestration.StatusTimedOut, timedOut.Status)
	assert.Equal(t, "timed_out", timedOut.Outcome)
}

func TestRedisStore_SaveAndGet(t *testing.T) {
	t.Parallel()
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	rec := record("race-1", orchestration.SuccessOutcome(500*time.Millisecond, "task3"))
	require.NoError(t, store.Save(ctx, rec))
	assert.True(t, mr.Exists(raceKeyPrefix+"race-1"), "record key was not written")
	assert.Equal(t, DefaultTTL, mr.TTL(raceKeyPrefix+"race-1"))

	got, err := store.Get(ctx, "race-1")
	require.NoError(t, err)
	assert.Equal(t, "task3", got.Label)
	assert.Equal(t, int64(500), got.Status)
	assert.True(t, got.At.Equal(rec.At))

	_, err = store.Get(ctx, "missing")
	assert.Error(t, err)
}

func TestRedisStore_SaveRejectsEmptyID(t *testing.T) {
	t.Parallel()
	store, _ := setupTestRedis(t)
	assert.Error(t, store.Save(context.Background(), Record{}))
}

func TestRedisStore_RecentNewestFirst(t *testing.T) {
	t.Parallel()
	store, _ := setupTestRedis(t, WithMaxEntries(3))
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, store.Save(ctx, record(fmt.Sprintf("race-%d", i), orchestration.TimedOut())))
	}

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3, "index is capped")
	for i, id := range []string{"race-4", "race-3", "race-2"} {
		assert.Equal(t, id, recent[i].RaceID)
	}

	none, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRedisStore_RecentSkipsExpired(t *testing.T) {
	t.Parallel()
	store, mr := setupTestRedis(t, WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, record("old", orchestration.AllFailed())))
	mr.FastForward(2 * time.Minute)
	require.NoError(t, store.Save(ctx, record("new", orchestration.AllFailed())))

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "new", recent[0].RaceID)
}

func TestRedisStore_Counts(t *testing.T) {
	t.Parallel()
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	outcomes := []orchestration.Outcome{
		orchestration.SuccessOutcome(time.Millisecond, "a"),
		orchestration.SuccessOutcome(2*time.Millisecond, "b"),
		orchestration.TimedOut(),
	}
	for i, o := range outcomes {
		require.NoError(t, store.Save(ctx, record(fmt.Sprintf("race-%d", i), o)))
	}

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["success"])
	assert.Equal(t, int64(1), counts["timed_out"])
	assert.Zero(t, counts["all_failed"])
}

func TestDial(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	store, err := Dial(context.Background(), addr)
	require.NoError(t, err)
	defer store.Close()

	mr.Close()
	_, err = Dial(context.Background(), addr)
	assert.Error(t, err, "dialing a stopped server")
}

func TestNopStore(t *testing.T) {
	t.Parallel()
	var s Store = NopStore{}
	ctx := context.Background()

	assert.NoError(t, s.Save(ctx, record("x", orchestration.TimedOut())))
	recs, err := s.Recent(ctx, 5)
	assert.NoError(t, err)
	assert.Empty(t, recs)
	counts, err := s.Counts(ctx)
	assert.NoError(t, err)
	assert.Empty(t, counts)
	assert.NoError(t, s.Close())
}
