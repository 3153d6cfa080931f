package scheduler

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastPolicy = RetryPolicy{MaxRetries: 2, Delay: time.Millisecond}

func TestRetryPolicyStopsOnSuccess(t *testing.T) {
	calls := 0
	attempts, err := fastPolicy.Run(context.Background(), func(context.Context, int) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 2, calls)
}

func TestRetryPolicyExhausts(t *testing.T) {
	var seen []int
	attempts, err := fastPolicy.Run(context.Background(), func(_ context.Context, attempt int) error {
		seen = append(seen, attempt)
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestRetryPolicyHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{MaxRetries: 3, Delay: time.Hour}

	attempts, err := policy.Run(ctx, func(context.Context, int) error {
		cancel()
		return errors.New("boom")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestRetryPolicyZeroRetriesRunsOnce(t *testing.T) {
	calls := 0
	_, err := RetryPolicy{}.Run(context.Background(), func(context.Context, int) error {
		calls++
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	assert.Equal(t, 1, calls)
}

func TestDefaultRetryPolicy(t *testing.T) {
	assert.Equal(t, 3, DefaultRetryPolicy.MaxRetries)
	assert.Equal(t, 5*time.Minute, DefaultRetryPolicy.Delay)

	policy := DefaultRetryPolicy
	policy.Delay = 0

	calls := 0
	attempts, err := policy.Run(context.Background(), func(context.Context, int) error {
		calls++
		return errors.New("mongo down")
	})
	require.EqualError(t, err, "mongo down")
	assert.Equal(t, 4, calls)
	assert.Equal(t, 4, attempts)
}

type denyLocker struct{}

func (denyLocker) Acquire(context.Context, string, time.Duration) (func(), bool, error) {
	return func() {}, false, nil
}

type countingLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	released int
}

func (l *countingLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = map[string]bool{}
	}
	if l.held[key] {
		return func() {}, false, nil
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
		l.released++
	}, true, nil
}

func TestRunNowRetriesAndReleases(t *testing.T) {
	locker := &countingLocker{}
	s := New(time.UTC, fastPolicy, locker)

	var calls int32
	require.NoError(t, s.Register(Job{Name: "send", Run: func(context.Context) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("smtp down")
		}
		return nil
	}}))

	require.NoError(t, s.RunNow(context.Background(), "send"))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, locker.released)
}

func TestRunNowPermanentFailure(t *testing.T) {
	s := New(time.UTC, fastPolicy, nil)
	require.NoError(t, s.Register(Job{Name: "generate", Run: func(context.Context) error {
		return errors.New("mongo down")
	}}))

	err := s.RunNow(context.Background(), "generate")
	require.EqualError(t, err, "mongo down")
}

func TestRunNowRecoversPanic(t *testing.T) {
	s := New(time.UTC, RetryPolicy{}, nil)
	require.NoError(t, s.Register(Job{Name: "cleanup", Run: func(context.Context) error {
		panic("nil map")
	}}))

	err := s.RunNow(context.Background(), "cleanup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestRunNowLeaseHeld(t *testing.T) {
	s := New(time.UTC, fastPolicy, denyLocker{})
	ran := false
	require.NoError(t, s.Register(Job{Name: "send", Run: func(context.Context) error {
		ran = true
		return nil
	}}))

	err := s.RunNow(context.Background(), "send")
	require.ErrorIs(t, err, ErrJobRunning)
	assert.False(t, ran)
}

func TestRunNowUnknownJob(t *testing.T) {
	s := New(time.UTC, fastPolicy, nil)
	require.ErrorIs(t, s.RunNow(context.Background(), "nope"), ErrUnknownJob)
}

func TestRegisterValidatesSpec(t *testing.T) {
	s := New(time.UTC, fastPolicy, nil)
	require.Error(t, s.Register(Job{Name: "bad", Spec: "every now and then", Run: func(context.Context) error { return nil }}))
	require.NoError(t, s.Register(Job{Name: "hourly", Spec: "0 * * * *", Run: func(context.Context) error { return nil }}))
	require.Error(t, s.Register(Job{Name: "hourly", Run: func(context.Context) error { return nil }}))
	assert.Equal(t, []string{"hourly"}, s.Jobs())
}

func TestStartStop(t *testing.T) {
	s := New(time.UTC, fastPolicy, nil)
	require.NoError(t, s.Register(Job{Name: "tick", Spec: "@every 1h", Run: func(context.Context) error { return nil }}))

	s.Start()
	s.Start()
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	locker := NewRedisLocker(client, "dailydigest:test:lease:")
	ctx := context.Background()

	release, ok, err := locker.Acquire(ctx, "generate", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.Acquire(ctx, "generate", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	release()

	release, ok, err = locker.Acquire(ctx, "generate", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	release()
}
