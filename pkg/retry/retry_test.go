package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:    maxRetries,
		BackoffFactor: 2,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
	}
}

func TestRetry_SuccessOnFirstTry(t *testing.T) {
	counter := 0
	err := NewRetrier(fastConfig(3)).Do(context.Background(), func(ctx context.Context) error {
		counter++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, counter)
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	counter := 0
	err := NewRetrier(fastConfig(3)).Do(context.Background(), func(ctx context.Context) error {
		counter++
		if counter < 3 {
			return errors.New("temporary error")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, counter)
}

func TestRetry_MaxRetriesExceeded(t *testing.T) {
	expectedErr := errors.New("still failing")
	counter := 0
	err := NewRetrier(fastConfig(2)).Do(context.Background(), func(ctx context.Context) error {
		counter++
		return expectedErr
	})

	require.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 3, counter) // initial try + 2 retries
}

func TestRetry_PermanentStopsImmediately(t *testing.T) {
	base := errors.New("bad request")
	counter := 0
	err := NewRetrier(fastConfig(5)).Do(context.Background(), func(ctx context.Context) error {
		counter++
		return Permanent(base)
	})

	require.ErrorIs(t, err, base)
	assert.True(t, IsPermanent(err))
	assert.Equal(t, 1, counter)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(5)
	cfg.InitialDelay = time.Second
	cfg.MaxDelay = time.Second

	err := NewRetrier(cfg).Do(ctx, func(ctx context.Context) error {
		cancel()
		return errors.New("operation error after cancel")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPermanent_Nil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
	assert.False(t, IsPermanent(errors.New("plain")))
}
