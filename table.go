package lsh

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/lsh/internal/hashtable"
	"github.com/hupe1980/lsh/internal/lshfunc"
	"github.com/hupe1980/lsh/internal/nnquery"
	"github.com/hupe1980/lsh/internal/storage"
)

// minChunkSize is the smallest number of points a build worker hashes at once.
const minChunkSize = 256

// NewTable builds an LSH table over points.
//
// The points slice is referenced, not copied, and must not be modified
// while the table is in use. Keys returned by queries are positions in
// points.
func NewTable[P Point](points []P, params Parameters, optFns ...Option) (*Table[P], error) {
	o := applyOptions(optFns)

	start := time.Now()
	t, err := newTableBuilder(points, params, o).build()
	elapsed := time.Since(start)

	o.logger.LogBuild(context.Background(), params, len(points), o.backend.String(), elapsed, err)
	o.metricsCollector.RecordBuild(len(points), elapsed, err)

	if err != nil {
		return nil, err
	}
	return t, nil
}

// tableBuilder carries the intermediate artifacts of one construction.
type tableBuilder[P Point] struct {
	points []P
	params Parameters
	opts   options

	traits  pointTraits[P]
	fn      lshfunc.Function[P]
	backend hashtable.Backend
	hashes  [][]uint64
	tables  *hashtable.Composite
}

func newTableBuilder[P Point](points []P, params Parameters, opts options) *tableBuilder[P] {
	return &tableBuilder[P]{points: points, params: params, opts: opts}
}

func (b *tableBuilder[P]) build() (*Table[P], error) {
	steps := []func() error{
		b.params.Validate,
		b.resolve,
		b.newFunction,
		b.checkPoints,
		b.newBackend,
		b.hashPoints,
		b.buildTables,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	store := storage.NewArray(b.points)
	t := &Table[P]{
		params:  b.params,
		traits:  b.traits,
		store:   store,
		query:   nnquery.New(b.fn, b.tables, store, b.traits.distance()),
		logger:  b.opts.logger,
		metrics: b.opts.metricsCollector,
	}
	t.numProbes.Store(int64(b.params.L))
	t.maxNumCandidates.Store(NoMaxNumCandidates)
	return t, nil
}

func (b *tableBuilder[P]) resolve() error {
	traits, err := resolveTraits[P]()
	if err != nil {
		return err
	}
	b.traits = traits
	return nil
}

func (b *tableBuilder[P]) newFunction() error {
	fn, err := newFunction(b.traits, b.params)
	if err != nil {
		return err
	}
	b.fn = fn
	return nil
}

func (b *tableBuilder[P]) checkPoints() error {
	for i, p := range b.points {
		if err := b.traits.check(p, b.params.Dimension); err != nil {
			return &SetupError{Field: "points", Reason: fmt.Sprintf("point %d: %v", i, err), cause: err}
		}
	}
	return nil
}

func (b *tableBuilder[P]) newBackend() error {
	backend, err := hashtable.New(b.opts.backend.kind())
	if err != nil {
		return &SetupError{Field: "backend", Reason: err.Error(), cause: err}
	}
	b.backend = backend
	return nil
}

// hashPoints computes the primary bucket of every point in every
// repetition. Workers own disjoint point ranges, so the result does not
// depend on scheduling.
func (b *tableBuilder[P]) hashPoints() error {
	n, l := len(b.points), b.params.L

	b.hashes = make([][]uint64, l)
	for i := range b.hashes {
		b.hashes[i] = make([]uint64, n)
	}

	chunk := max(minChunkSize, (n+b.opts.buildWorkers-1)/b.opts.buildWorkers)

	var g errgroup.Group
	g.SetLimit(b.opts.buildWorkers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			buf := make([]uint64, l)
			for i := lo; i < hi; i++ {
				b.fn.Hash(b.points[i], buf)
				for t, h := range buf {
					b.hashes[t][i] = h
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (b *tableBuilder[P]) buildTables() error {
	tables := make([]hashtable.Table, len(b.hashes))

	var g errgroup.Group
	g.SetLimit(b.opts.buildWorkers)
	for i := range b.hashes {
		g.Go(func() error {
			t, err := b.backend.Build(b.hashes[i])
			if err != nil {
				return &SetupError{Field: "points", Reason: err.Error(), cause: err}
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	b.hashes = nil

	composite, err := hashtable.NewComposite(tables)
	if err != nil {
		return &SetupError{Reason: err.Error(), cause: err}
	}
	b.tables = composite
	return nil
}
