package lsh

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hupe1980/lsh/internal/nnquery"
	"github.com/hupe1980/lsh/internal/storage"
)

// Table is a built LSH nearest-neighbor table.
//
// All methods are safe for concurrent use. The probe count and candidate
// cap set through SetNumProbes and SetMaxNumCandidates apply to every
// subsequent query that does not override them with a QueryOption.
type Table[P Point] struct {
	params Parameters
	traits pointTraits[P]
	store  *storage.Array[P]
	query  *nnquery.Query[P]

	numProbes        atomic.Int64
	maxNumCandidates atomic.Int64

	logger  *Logger
	metrics MetricsCollector
}

// Parameters returns the parameters the table was built with.
func (t *Table[P]) Parameters() Parameters { return t.params }

// Len returns the number of indexed points.
func (t *Table[P]) Len() int { return t.store.Size() }

// SetNumProbes sets the number of buckets probed per query across all
// repetitions. The first L probes are the primary buckets.
func (t *Table[P]) SetNumProbes(numProbes int) error {
	if numProbes < 1 {
		return &UsageError{Op: "SetNumProbes", Reason: fmt.Sprintf("number of probes must be at least 1, got %d", numProbes)}
	}
	t.numProbes.Store(int64(numProbes))
	return nil
}

// NumProbes returns the number of buckets probed per query.
func (t *Table[P]) NumProbes() int { return int(t.numProbes.Load()) }

// SetMaxNumCandidates caps the number of candidates, duplicates included,
// read per query. NoMaxNumCandidates or any negative value removes the cap.
func (t *Table[P]) SetMaxNumCandidates(maxNumCandidates int) {
	t.maxNumCandidates.Store(int64(maxNumCandidates))
}

// MaxNumCandidates returns the candidate cap, or a negative value if there
// is none.
func (t *Table[P]) MaxNumCandidates() int { return int(t.maxNumCandidates.Load()) }

// FindClosest returns the key of the candidate closest to q.
// It returns ErrNoCandidates when the probed buckets are empty.
func (t *Table[P]) FindClosest(q P, opts ...QueryOption) (Key, error) {
	const op = "FindClosest"
	start := time.Now()

	b, err := t.prepare(op, q, opts)
	if err != nil {
		return 0, err
	}
	key, ok := t.query.Closest(q, b)
	if !ok {
		err = ErrNoCandidates
	}
	t.observe(op, b, start, btoi(ok), err)
	return key, err
}

// FindKNearestNeighbors returns up to k candidate keys ordered by
// non-decreasing distance to q.
func (t *Table[P]) FindKNearestNeighbors(q P, k int, opts ...QueryOption) ([]Key, error) {
	const op = "FindKNearestNeighbors"
	start := time.Now()

	if k < 1 {
		return nil, &UsageError{Op: op, Reason: fmt.Sprintf("k must be at least 1, got %d", k)}
	}
	b, err := t.prepare(op, q, opts)
	if err != nil {
		return nil, err
	}
	keys := t.query.KNearest(q, k, b)
	t.observe(op, b, start, len(keys), nil)
	return keys, nil
}

// FindNearNeighbors returns every candidate whose distance to q is less
// than threshold, in no particular order.
func (t *Table[P]) FindNearNeighbors(q P, threshold float32, opts ...QueryOption) ([]Key, error) {
	const op = "FindNearNeighbors"
	start := time.Now()

	b, err := t.prepare(op, q, opts)
	if err != nil {
		return nil, err
	}
	keys := t.query.NearNeighbors(q, threshold, b)
	t.observe(op, b, start, len(keys), nil)
	return keys, nil
}

// GetCandidatesWithDuplicates returns the keys of all probed buckets. A key
// found in several probed buckets is returned once per bucket.
func (t *Table[P]) GetCandidatesWithDuplicates(q P, opts ...QueryOption) ([]Key, error) {
	const op = "GetCandidatesWithDuplicates"
	start := time.Now()

	b, err := t.prepare(op, q, opts)
	if err != nil {
		return nil, err
	}
	keys := t.query.CandidatesWithDuplicates(q, b)
	t.observe(op, b, start, len(keys), nil)
	return keys, nil
}

// GetUniqueCandidates returns the distinct keys of all probed buckets in
// no particular order.
func (t *Table[P]) GetUniqueCandidates(q P, opts ...QueryOption) ([]Key, error) {
	const op = "GetUniqueCandidates"
	start := time.Now()

	b, err := t.prepare(op, q, opts)
	if err != nil {
		return nil, err
	}
	keys := t.query.UniqueCandidates(q, b)
	t.observe(op, b, start, len(keys), nil)
	return keys, nil
}

// GetUniqueSortedCandidates returns the distinct keys of all probed
// buckets in increasing key order.
func (t *Table[P]) GetUniqueSortedCandidates(q P, opts ...QueryOption) ([]Key, error) {
	const op = "GetUniqueSortedCandidates"
	start := time.Now()

	b, err := t.prepare(op, q, opts)
	if err != nil {
		return nil, err
	}
	keys := t.query.UniqueSortedCandidates(q, b)
	t.observe(op, b, start, len(keys), nil)
	return keys, nil
}

// prepare validates q and resolves the query budget from the table knobs
// and the per-call overrides.
func (t *Table[P]) prepare(op string, q P, opts []QueryOption) (nnquery.Budget, error) {
	if err := t.traits.check(q, t.params.Dimension); err != nil {
		return nnquery.Budget{}, err
	}

	qo := queryOptions{
		numProbes:        t.NumProbes(),
		maxNumCandidates: t.MaxNumCandidates(),
	}
	for _, fn := range opts {
		if fn != nil {
			fn(&qo)
		}
	}
	if qo.numProbes < 1 {
		return nnquery.Budget{}, &UsageError{Op: op, Reason: fmt.Sprintf("number of probes must be at least 1, got %d", qo.numProbes)}
	}
	return nnquery.Budget{NumProbes: qo.numProbes, MaxNumCandidates: qo.maxNumCandidates}, nil
}

func (t *Table[P]) observe(op string, b nnquery.Budget, start time.Time, results int, err error) {
	t.logger.LogQuery(context.Background(), op, b.NumProbes, results, err)
	t.metrics.RecordQuery(op, results, time.Since(start), err)
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
