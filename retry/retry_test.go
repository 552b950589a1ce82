package retry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsAfterTransientErrors(t *testing.T) {
	var attempts int32
	op := func() error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("transient")
		}
		return nil
	}

	err := Do(context.Background(), op,
		WithInitialInterval(time.Millisecond),
		WithRandomizationFactor(0),
		WithMaxTries(5),
	)
	require.NoError(t, err)
	assert.Equal(t, int32(3), attempts)
}

func TestDo_ReturnsLastErrorOnExhaustion(t *testing.T) {
	var attempts int32
	op := func() error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("always fails")
	}

	err := Do(context.Background(), op,
		WithInitialInterval(time.Millisecond),
		WithRandomizationFactor(0),
		WithMaxTries(3),
	)
	require.Error(t, err)
	assert.Equal(t, int32(3), attempts)
}

func TestDo_NotifyCalledOnEachFailedAttempt(t *testing.T) {
	var attempts, notified int32
	op := func() error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("transient")
		}
		return nil
	}

	err := Do(context.Background(), op,
		WithInitialInterval(time.Millisecond),
		WithRandomizationFactor(0),
		WithMaxTries(5),
		WithNotify(func(_ error, _ time.Duration) { atomic.AddInt32(&notified, 1) }),
	)
	require.NoError(t, err)
	assert.Equal(t, int32(2), notified)
}
