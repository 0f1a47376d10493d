package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

var errTransient = errors.New("transient")

func testConfig(attempts int, retryable ...error) *RetryConfig {
	return &RetryConfig{
		MaxAttempts:     attempts,
		BackoffStrategy: &ConstantBackoff{Interval: time.Millisecond},
		Logger:          logger.NewNop(),
		RetryableErrors: retryable,
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	}, testConfig(5))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryGivesUp(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), func(ctx context.Context) error {
		calls++
		return errTransient
	}, testConfig(3))

	require.Error(t, err)
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0

	err := Retry(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	}, testConfig(5, errTransient))

	assert.Equal(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestRetryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, func(ctx context.Context) error {
		calls++
		return nil
	}, testConfig(3))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestExponentialBackoff(t *testing.T) {
	b := &ExponentialBackoff{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2,
	}

	assert.Equal(t, 100*time.Millisecond, b.NextBackoff(1))
	assert.Equal(t, 200*time.Millisecond, b.NextBackoff(2))
	assert.Equal(t, 400*time.Millisecond, b.NextBackoff(3))
	assert.Equal(t, time.Second, b.NextBackoff(10))
}
