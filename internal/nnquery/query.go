package nnquery

import (
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/lsh/distance"
	"github.com/hupe1980/lsh/internal/hashtable"
	"github.com/hupe1980/lsh/internal/lshfunc"
	"github.com/hupe1980/lsh/internal/pool"
	"github.com/hupe1980/lsh/internal/queue"
	"github.com/hupe1980/lsh/internal/storage"
	"github.com/hupe1980/lsh/model"
)

// Budget bounds the work of a single query.
type Budget struct {
	// NumProbes is the number of buckets to probe across all repetitions.
	NumProbes int
	// MaxNumCandidates caps the number of keys read from the probed
	// buckets, duplicates included. Negative means unlimited.
	MaxNumCandidates int
}

func (b Budget) exhausted(n int) bool {
	return b.MaxNumCandidates >= 0 && n >= b.MaxNumCandidates
}

// Query ranks LSH candidates for one built table.
type Query[P any] struct {
	fn     lshfunc.Function[P]
	tables *hashtable.Composite
	store  *storage.Array[P]
	dist   distance.Func[P]
	stats  counters
}

// New creates a Query over the given collaborators.
func New[P any](fn lshfunc.Function[P], tables *hashtable.Composite, store *storage.Array[P], dist distance.Func[P]) *Query[P] {
	return &Query[P]{
		fn:     fn,
		tables: tables,
		store:  store,
		dist:   dist,
	}
}

// Statistics returns a snapshot of the cumulative counters.
func (q *Query[P]) Statistics() Statistics { return q.stats.snapshot() }

// ResetStatistics zeroes the cumulative counters.
func (q *Query[P]) ResetStatistics() { q.stats.reset() }

// collect probes the tables for p and fills ctx.Candidates. With unique
// set, every key appears at most once and in first-seen order.
func (q *Query[P]) collect(ctx *pool.QueryContext, p P, b Budget, unique bool, s *sample) {
	t := time.Now()
	ctx.Probes = q.fn.ProbeSequence(p, b.NumProbes, ctx.Probes[:0])
	s.lshTime = time.Since(t)

	t = time.Now()
	n := 0
	if !b.exhausted(0) {
		for key := range q.tables.Candidates(ctx.Probes) {
			n++
			seen := ctx.MarkVisited(key)
			if !unique || !seen {
				ctx.Candidates = append(ctx.Candidates, key)
			}
			if b.exhausted(n) {
				break
			}
		}
	}
	s.hashTableTime = time.Since(t)
	s.candidates = n
	s.unique = ctx.NumVisited()
}

// run collects candidates and hands them to finish. Time spent in finish
// is accounted as distance time when ranked is set.
func (q *Query[P]) run(p P, b Budget, unique, ranked bool, finish func(ctx *pool.QueryContext)) {
	s := sample{start: time.Now()}
	ctx := pool.Get()
	defer pool.Put(ctx)

	q.collect(ctx, p, b, unique, &s)

	t := time.Now()
	finish(ctx)
	if ranked {
		s.distanceTime = time.Since(t)
	}
	q.stats.add(&s)
}

// CandidatesWithDuplicates returns every key found in the probed buckets,
// once per bucket it was found in.
func (q *Query[P]) CandidatesWithDuplicates(p P, b Budget) []model.Key {
	var out []model.Key
	q.run(p, b, false, false, func(ctx *pool.QueryContext) {
		out = append(make([]model.Key, 0, len(ctx.Candidates)), ctx.Candidates...)
	})
	return out
}

// UniqueCandidates returns the distinct keys found in the probed buckets in
// the order they were first seen.
func (q *Query[P]) UniqueCandidates(p P, b Budget) []model.Key {
	var out []model.Key
	q.run(p, b, true, false, func(ctx *pool.QueryContext) {
		out = append(make([]model.Key, 0, len(ctx.Candidates)), ctx.Candidates...)
	})
	return out
}

// UniqueSortedCandidates returns the distinct keys found in the probed
// buckets in increasing key order.
func (q *Query[P]) UniqueSortedCandidates(p P, b Budget) []model.Key {
	var out []model.Key
	q.run(p, b, true, false, func(ctx *pool.QueryContext) {
		bm := roaring.New()
		for _, c := range ctx.Candidates {
			bm.Add(uint32(c))
		}
		out = make([]model.Key, 0, bm.GetCardinality())
		it := bm.Iterator()
		for it.HasNext() {
			out = append(out, model.Key(it.Next()))
		}
	})
	return out
}

// Closest returns the candidate with the smallest distance to p. Ties are
// broken by the smaller key. ok is false when no candidate was examined.
func (q *Query[P]) Closest(p P, b Budget) (key model.Key, ok bool) {
	q.run(p, b, true, true, func(ctx *pool.QueryContext) {
		var best float32
		for _, c := range ctx.Candidates {
			d := q.dist(p, q.store.Get(c))
			if !ok || d < best || (d == best && c < key) {
				key, best, ok = c, d, true
			}
		}
	})
	return key, ok
}

// KNearest returns up to k candidates ordered by non-decreasing distance
// to p. Ties are broken by the smaller key.
func (q *Query[P]) KNearest(p P, k int, b Budget) []model.Key {
	var out []model.Key
	q.run(p, b, true, true, func(ctx *pool.QueryContext) {
		for _, c := range ctx.Candidates {
			ctx.Result.PushItemBounded(queue.Item{Key: c, Distance: q.dist(p, q.store.Get(c))}, k)
		}
		out = ctx.Result.AppendSorted(make([]model.Key, 0, ctx.Result.Len()))
	})
	return out
}

// NearNeighbors returns every candidate whose distance to p is strictly
// less than threshold, in the order the candidates were first seen.
func (q *Query[P]) NearNeighbors(p P, threshold float32, b Budget) []model.Key {
	var out []model.Key
	q.run(p, b, true, true, func(ctx *pool.QueryContext) {
		out = make([]model.Key, 0)
		for _, c := range ctx.Candidates {
			if q.dist(p, q.store.Get(c)) < threshold {
				out = append(out, c)
			}
		}
	})
	return out
}
