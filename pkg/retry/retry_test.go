package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetrier(maxAttempts int) *Retrier {
	return New(Config{
		MaxAttempts:  maxAttempts,
		BaseDelay:    time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
		JitterFactor: 0,
	})
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := fastRetrier(3).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesRetryableErrors(t *testing.T) {
	calls := 0
	err := fastRetrier(3).Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentErrorStopsImmediately(t *testing.T) {
	cause := errors.New("bad request")
	calls := 0
	err := fastRetrier(3).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return Permanent(cause)
	})
	assert.Equal(t, 1, calls)
	assert.Equal(t, cause, err)
}

func TestDo_UnclassifiedErrorStopsImmediately(t *testing.T) {
	calls := 0
	plain := errors.New("plain")
	err := fastRetrier(3).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return plain
	})
	assert.Equal(t, 1, calls)
	assert.Equal(t, plain, err)
}

func TestDo_ExhaustionUnwrapsCause(t *testing.T) {
	cause := errors.New("still failing")
	err := fastRetrier(2).Do(context.Background(), func(ctx context.Context) error {
		return Retryable(cause)
	})
	assert.Equal(t, cause, err)
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := New(Config{MaxAttempts: 5, BaseDelay: time.Hour}).Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return Retryable(errors.New("transient"))
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_OnRetryCallback(t *testing.T) {
	var attempts []int
	r := New(Config{
		MaxAttempts:  3,
		BaseDelay:    time.Millisecond,
		Multiplier:   2.0,
		JitterFactor: 0,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			attempts = append(attempts, attempt)
		},
	})

	_ = r.Do(context.Background(), func(ctx context.Context) error {
		return Retryable(errors.New("transient"))
	})
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestDelay_GrowsAndCaps(t *testing.T) {
	r := New(Config{
		MaxAttempts:  5,
		BaseDelay:    10 * time.Millisecond,
		MaxDelay:     40 * time.Millisecond,
		Multiplier:   2.0,
		JitterFactor: 0,
	})

	assert.Equal(t, 10*time.Millisecond, r.delay(1))
	assert.Equal(t, 20*time.Millisecond, r.delay(2))
	assert.Equal(t, 40*time.Millisecond, r.delay(3))
	assert.Equal(t, 40*time.Millisecond, r.delay(4)) // capped
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsRetryable(Retryable(errors.New("x"))))
	assert.False(t, IsRetryable(Permanent(errors.New("x"))))
	assert.True(t, IsPermanent(Permanent(errors.New("x"))))
	assert.Nil(t, Retryable(nil))
	assert.Nil(t, Permanent(nil))
}
