package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast(opts ...Option) Retry {
	return New(append([]Option{WithDelay(time.Millisecond), WithMaxDelay(5 * time.Millisecond)}, opts...)...)
}

func TestRetry_Execute(t *testing.T) {
	t.Run("successful operation", func(t *testing.T) {
		callCount := 0

		err := fast().Execute(t.Context(), func() error {
			callCount++
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, callCount)
	})

	t.Run("retry until success", func(t *testing.T) {
		callCount := 0

		err := fast(WithAttempts(3)).Execute(t.Context(), func() error {
			callCount++
			if callCount < 2 {
				return errors.New("not yet")
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, callCount)
	})

	t.Run("retry exhausted returns the last error", func(t *testing.T) {
		callCount := 0
		expectedErr := errors.New("persistent error")

		err := fast(WithAttempts(3)).Execute(t.Context(), func() error {
			callCount++
			return expectedErr
		})

		assert.ErrorIs(t, err, expectedErr)
		assert.Equal(t, 3, callCount)
	})

	t.Run("all errors when last error only is disabled", func(t *testing.T) {
		first := errors.New("first")
		second := errors.New("second")
		errs := []error{first, second}
		callCount := 0

		err := fast(WithAttempts(2), WithLastErrorOnly(false)).Execute(t.Context(), func() error {
			callCount++
			return errs[callCount-1]
		})

		assert.ErrorIs(t, err, first)
		assert.ErrorIs(t, err, second)
	})

	t.Run("errors rejected by the predicate stop immediately", func(t *testing.T) {
		fatal := errors.New("fatal")
		callCount := 0

		err := fast(WithAttempts(5), WithRetryIf(func(err error) bool {
			return !errors.Is(err, fatal)
		})).Execute(t.Context(), func() error {
			callCount++
			return fatal
		})

		assert.ErrorIs(t, err, fatal)
		assert.Equal(t, 1, callCount)
	})

	t.Run("failed attempts are observed", func(t *testing.T) {
		var observed []uint
		temporary := errors.New("temporary")
		callCount := 0

		err := fast(WithAttempts(3), WithOnRetry(func(n uint, err error) {
			assert.ErrorIs(t, err, temporary)
			observed = append(observed, n)
		})).Execute(t.Context(), func() error {
			callCount++
			if callCount == 1 {
				return temporary
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []uint{0}, observed)
	})

	t.Run("context cancellation", func(t *testing.T) {
		r := New(
			WithAttempts(5),
			WithDelay(time.Second),
		)
		callCount := 0

		ctx, cancel := context.WithCancel(t.Context())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		err := r.Execute(ctx, func() error {
			callCount++
			return errors.New("not yet")
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, callCount)
	})
}

func TestRetry_Options(t *testing.T) {
	t.Run("default options", func(t *testing.T) {
		r := New()
		retrier, ok := r.(*retrier)
		require.True(t, ok)

		assert.Equal(t, uint(3), retrier.cfg.attempts)
		assert.Equal(t, 1*time.Second, retrier.cfg.delay)
		assert.Equal(t, 5*time.Second, retrier.cfg.maxDelay)
		assert.True(t, retrier.cfg.lastErrOnly)
		assert.Nil(t, retrier.cfg.retryIf)
		assert.Nil(t, retrier.cfg.onRetry)
	})

	t.Run("custom options", func(t *testing.T) {
		r := New(
			WithAttempts(5),
			WithDelay(2*time.Second),
			WithMaxDelay(10*time.Second),
			WithLastErrorOnly(false),
			WithRetryIf(func(error) bool { return true }),
		)
		retrier, ok := r.(*retrier)
		require.True(t, ok)

		assert.Equal(t, uint(5), retrier.cfg.attempts)
		assert.Equal(t, 2*time.Second, retrier.cfg.delay)
		assert.Equal(t, 10*time.Second, retrier.cfg.maxDelay)
		assert.False(t, retrier.cfg.lastErrOnly)
		assert.NotNil(t, retrier.cfg.retryIf)
	})
}
