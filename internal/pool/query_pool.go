// Package pool provides reusable per-query scratch space.
// Uses sync.Pool for automatic memory reuse and bitsets for duplicate elimination.
package pool

import (
	"sync"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/lsh/internal/queue"
	"github.com/hupe1980/lsh/model"
)

const (
	// DefaultMaxKeys is the initial capacity of the visited bitset.
	DefaultMaxKeys = 1 << 16

	// DefaultQueueCapacity is the default capacity of the result heap.
	DefaultQueueCapacity = 64

	// DefaultProbeCapacity is the default capacity of the probe buffer.
	DefaultProbeCapacity = 64

	// clearAllRatio controls when Reset wipes the whole bitset instead of
	// clearing the marked keys one by one.
	clearAllRatio = 64
)

// QueryContext holds the buffers a single LSH query needs.
type QueryContext struct {
	Visited    *bitset.BitSet
	Probes     []model.Probe
	Candidates []model.Key
	Result     *queue.PriorityQueue

	marked []model.Key
}

var queryContextPool = sync.Pool{
	New: func() any {
		return &QueryContext{
			Visited:    bitset.New(DefaultMaxKeys),
			Probes:     make([]model.Probe, 0, DefaultProbeCapacity),
			Candidates: make([]model.Key, 0, DefaultQueueCapacity),
			Result:     queue.NewMax(DefaultQueueCapacity),
		}
	},
}

// Get retrieves a QueryContext from the pool.
func Get() *QueryContext {
	return queryContextPool.Get().(*QueryContext)
}

// Put resets ctx and returns it to the pool.
func Put(ctx *QueryContext) {
	ctx.Reset()
	if ctx.Visited.Len() > DefaultMaxKeys*64 {
		ctx.Visited = bitset.New(DefaultMaxKeys)
	}
	queryContextPool.Put(ctx)
}

// Reset clears the QueryContext for reuse.
func (qc *QueryContext) Reset() {
	if len(qc.marked)*clearAllRatio > int(qc.Visited.Len()) {
		qc.Visited.ClearAll()
	} else {
		for _, k := range qc.marked {
			qc.Visited.Clear(uint(k))
		}
	}
	qc.marked = qc.marked[:0]
	qc.Probes = qc.Probes[:0]
	qc.Candidates = qc.Candidates[:0]
	qc.Result.Reset()
}

// MarkVisited marks key as seen.
// Returns true if the key was already seen, false otherwise.
func (qc *QueryContext) MarkVisited(key model.Key) bool {
	if qc.Visited.Test(uint(key)) {
		return true
	}
	qc.Visited.Set(uint(key)) // grows the bitset on demand
	qc.marked = append(qc.marked, key)
	return false
}

// IsVisited reports whether key was marked since the last Reset.
func (qc *QueryContext) IsVisited(key model.Key) bool {
	return qc.Visited.Test(uint(key))
}

// NumVisited returns the number of distinct keys marked since the last Reset.
func (qc *QueryContext) NumVisited() int {
	return len(qc.marked)
}
