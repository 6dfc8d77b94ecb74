package reembed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	t.Run("first attempt succeeds", func(t *testing.T) {
		attempts := 0
		err := RetryWithBackoff(context.Background(), func(context.Context) error {
			attempts++
			return nil
		}, 3, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("eventual success", func(t *testing.T) {
		attempts := 0
		err := RetryWithBackoff(context.Background(), func(context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("embedding server busy")
			}
			return nil
		}, 5, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("returns last error", func(t *testing.T) {
		attempts := 0
		persistent := errors.New("model not loaded")
		err := RetryWithBackoff(context.Background(), func(context.Context) error {
			attempts++
			return persistent
		}, 3, time.Millisecond)
		assert.Equal(t, persistent, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("invalid attempts", func(t *testing.T) {
		for _, n := range []int{0, -1} {
			called := false
			err := RetryWithBackoff(context.Background(), func(context.Context) error {
				called = true
				return nil
			}, n, time.Millisecond)
			assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
			assert.False(t, called)
		}
	})
}

func TestRetryWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := RetryWithBackoff(ctx, func(context.Context) error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("unavailable")
	}, 10, time.Millisecond)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts)
}

func TestRetryWithBackoff_CanceledDuringWait(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := RetryWithBackoff(ctx, func(context.Context) error {
		return errors.New("unavailable")
	}, 5, time.Hour)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "wait should end with the context")
}

func TestRetryWithBackoff_ExponentialBackoff(t *testing.T) {
	var stamps []time.Time
	base := 10 * time.Millisecond
	_ = RetryWithBackoff(context.Background(), func(context.Context) error {
		stamps = append(stamps, time.Now())
		return errors.New("unavailable")
	}, 4, base)

	require.Len(t, stamps, 4)
	for i := 1; i < len(stamps); i++ {
		expected := base << (i - 1)
		assert.GreaterOrEqual(t, stamps[i].Sub(stamps[i-1]), expected, "gap %d", i)
	}
}
