package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, 5*time.Second), mr
}

func TestWithLockRunsAndReleases(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	called := false
	err := locker.WithLock(ctx, "schedule:d1:20240101", func(ctx context.Context) error {
		called = true
		assert.True(t, mr.Exists("lock:schedule:d1:20240101"))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.False(t, mr.Exists("lock:schedule:d1:20240101"))
}

func TestWithLockRejectsWhenHeld(t *testing.T) {
	locker, mr := newTestLocker(t)
	require.NoError(t, mr.Set("lock:schedule:d1:20240101", "someone-else"))

	err := locker.WithLock(context.Background(), "schedule:d1:20240101", func(ctx context.Context) error {
		t.Fatal("critical section must not run")
		return nil
	})
	assert.True(t, errors.Is(err, ErrLockNotAcquired))

	// A foreign token is never released by us.
	got, _ := mr.Get("lock:schedule:d1:20240101")
	assert.Equal(t, "someone-else", got)
}

func TestWithLockPropagatesError(t *testing.T) {
	locker, mr := newTestLocker(t)
	boom := errors.New("boom")

	err := locker.WithLock(context.Background(), "k", func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("lock:k"))
}
