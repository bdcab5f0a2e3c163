package nnquery

import (
	"sync/atomic"
	"time"
)

// Statistics holds cumulative query counters.
type Statistics struct {
	NumQueries          int64
	NumCandidates       int64
	NumUniqueCandidates int64
	TotalQueryTime      time.Duration
	LSHTime             time.Duration
	HashTableTime       time.Duration
	DistanceTime        time.Duration
}

// counters accumulates Statistics without locking.
type counters struct {
	numQueries          atomic.Int64
	numCandidates       atomic.Int64
	numUniqueCandidates atomic.Int64
	totalNanos          atomic.Int64
	lshNanos            atomic.Int64
	hashTableNanos      atomic.Int64
	distanceNanos       atomic.Int64
}

// sample is the measurement of a single query.
type sample struct {
	start         time.Time
	candidates    int
	unique        int
	lshTime       time.Duration
	hashTableTime time.Duration
	distanceTime  time.Duration
}

func (c *counters) add(s *sample) {
	c.numQueries.Add(1)
	c.numCandidates.Add(int64(s.candidates))
	c.numUniqueCandidates.Add(int64(s.unique))
	c.totalNanos.Add(int64(time.Since(s.start)))
	c.lshNanos.Add(int64(s.lshTime))
	c.hashTableNanos.Add(int64(s.hashTableTime))
	c.distanceNanos.Add(int64(s.distanceTime))
}

func (c *counters) reset() {
	c.numQueries.Store(0)
	c.numCandidates.Store(0)
	c.numUniqueCandidates.Store(0)
	c.totalNanos.Store(0)
	c.lshNanos.Store(0)
	c.hashTableNanos.Store(0)
	c.distanceNanos.Store(0)
}

func (c *counters) snapshot() Statistics {
	return Statistics{
		NumQueries:          c.numQueries.Load(),
		NumCandidates:       c.numCandidates.Load(),
		NumUniqueCandidates: c.numUniqueCandidates.Load(),
		TotalQueryTime:      time.Duration(c.totalNanos.Load()),
		LSHTime:             time.Duration(c.lshNanos.Load()),
		HashTableTime:       time.Duration(c.hashTableNanos.Load()),
		DistanceTime:        time.Duration(c.distanceNanos.Load()),
	}
}
