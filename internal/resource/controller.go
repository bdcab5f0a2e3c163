package resource

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds load limits.
type Config struct {
	// MaxInFlight is the maximum number of concurrent queries.
	// If 0, concurrency is not bounded.
	MaxInFlight int64

	// QueriesPerSecond is the sustained query start rate.
	// If 0, unlimited.
	QueriesPerSecond float64

	// Burst is the number of queries that may start back to back.
	// If 0, defaults to 1.
	Burst int

	// IOLimitBytesPerSec is the maximum read throughput for dataset streams.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller enforces a Config.
type Controller struct {
	cfg Config

	inflightSem *semaphore.Weighted // nil if unbounded
	inflight    atomic.Int64
	peak        atomic.Int64

	queryLimiter *rate.Limiter
	ioLimiter    *rate.Limiter
}

// NewController creates a new controller.
func NewController(cfg Config) *Controller {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	c := &Controller{cfg: cfg}

	if cfg.MaxInFlight > 0 {
		c.inflightSem = semaphore.NewWeighted(cfg.MaxInFlight)
	}
	if cfg.QueriesPerSecond > 0 {
		c.queryLimiter = rate.NewLimiter(rate.Limit(cfg.QueriesPerSecond), cfg.Burst)
	}
	if cfg.IOLimitBytesPerSec > 0 {
		burst := int(min(cfg.IOLimitBytesPerSec, math.MaxInt32))
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), burst)
	}
	return c
}

// AcquireQuery blocks until a query may start: a concurrency slot is free
// and the rate limiter grants a token. Each successful call must be paired
// with ReleaseQuery.
func (c *Controller) AcquireQuery(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.inflightSem != nil {
		if err := c.inflightSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	if c.queryLimiter != nil {
		if err := c.queryLimiter.Wait(ctx); err != nil {
			if c.inflightSem != nil {
				c.inflightSem.Release(1)
			}
			return err
		}
	}
	c.track(1)
	return nil
}

// TryAcquireQuery is the non-blocking form of AcquireQuery.
func (c *Controller) TryAcquireQuery() bool {
	if c == nil {
		return true
	}
	if c.inflightSem != nil && !c.inflightSem.TryAcquire(1) {
		return false
	}
	if c.queryLimiter != nil && !c.queryLimiter.Allow() {
		if c.inflightSem != nil {
			c.inflightSem.Release(1)
		}
		return false
	}
	c.track(1)
	return true
}

// ReleaseQuery releases a slot taken by AcquireQuery or TryAcquireQuery.
func (c *Controller) ReleaseQuery() {
	if c == nil {
		return
	}
	c.track(-1)
	if c.inflightSem != nil {
		c.inflightSem.Release(1)
	}
}

func (c *Controller) track(delta int64) {
	n := c.inflight.Add(delta)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

// InFlight returns the number of queries currently holding a slot.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inflight.Load()
}

// PeakInFlight returns the highest InFlight value observed.
func (c *Controller) PeakInFlight() int64 {
	if c == nil {
		return 0
	}
	return c.peak.Load()
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// Requests larger than the limiter burst are split.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}

// TryAcquireIO attempts to acquire IO tokens without blocking.
func (c *Controller) TryAcquireIO(bytes int) bool {
	if c == nil || c.ioLimiter == nil {
		return true
	}
	return c.ioLimiter.AllowN(time.Now(), bytes)
}
