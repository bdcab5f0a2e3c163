package resource

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_InFlight(t *testing.T) {
	c := NewController(Config{MaxInFlight: 2})

	require.NoError(t, c.AcquireQuery(t.Context()))
	require.NoError(t, c.AcquireQuery(t.Context()))
	assert.Equal(t, int64(2), c.InFlight())

	assert.False(t, c.TryAcquireQuery())

	c.ReleaseQuery()
	assert.Equal(t, int64(1), c.InFlight())

	assert.True(t, c.TryAcquireQuery())
	assert.Equal(t, int64(2), c.PeakInFlight())
}

func TestController_AcquireCanceled(t *testing.T) {
	c := NewController(Config{MaxInFlight: 1})
	require.NoError(t, c.AcquireQuery(t.Context()))

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	err := c.AcquireQuery(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(1), c.InFlight())
}

func TestController_Unlimited(t *testing.T) {
	c := NewController(Config{})
	for range 100 {
		require.True(t, c.TryAcquireQuery())
	}
	assert.Equal(t, int64(100), c.InFlight())
	assert.True(t, c.TryAcquireIO(1<<30))
}

func TestController_QueryRate(t *testing.T) {
	c := NewController(Config{QueriesPerSecond: 1, Burst: 1})

	assert.True(t, c.TryAcquireQuery())
	c.ReleaseQuery()
	assert.False(t, c.TryAcquireQuery(), "second token should not be available yet")
	assert.Equal(t, int64(0), c.InFlight())
}

func TestController_Concurrent(t *testing.T) {
	c := NewController(Config{MaxInFlight: 3})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.AcquireQuery(context.Background()); err != nil {
				return
			}
			time.Sleep(time.Millisecond)
			c.ReleaseQuery()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(0), c.InFlight())
	assert.LessOrEqual(t, c.PeakInFlight(), int64(3))
}

func TestNilController(t *testing.T) {
	var c *Controller
	require.NoError(t, c.AcquireQuery(t.Context()))
	assert.True(t, c.TryAcquireQuery())
	c.ReleaseQuery()
	assert.Zero(t, c.InFlight())
	require.NoError(t, c.AcquireIO(t.Context(), 10))
}

func TestRateLimitedReader(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	payload := bytes.Repeat([]byte("x"), 3<<19)

	// The first megabyte is covered by the initial burst, the rest must wait.
	start := time.Now()
	got, err := io.ReadAll(NewRateLimitedReader(t.Context(), bytes.NewReader(payload), c))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.GreaterOrEqual(t, time.Since(start), 400*time.Millisecond)
}

func TestRateLimitedReader_Canceled(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 16})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	r := NewRateLimitedReader(ctx, bytes.NewReader(make([]byte, 64)), c)
	_, err := r.Read(make([]byte, 64))
	assert.ErrorIs(t, err, context.Canceled)
}
