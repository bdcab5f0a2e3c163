package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/lsh"
	"github.com/hupe1980/lsh/blobstore"
	"github.com/hupe1980/lsh/dataset"
	"github.com/hupe1980/lsh/distance"
	"github.com/hupe1980/lsh/internal/resource"
	"github.com/hupe1980/lsh/model"
)

// workload is a loaded dataset ready for building and querying.
type workload[P lsh.Point] struct {
	base        []P
	queries     []P
	groundTruth [][]model.Key
	dimension   int
	sparse      bool
	dist        distance.Func[P]
}

type loader struct {
	store  blobstore.BlobStore
	rc     *resource.Controller
	cfg    DatasetConfig
	logger *slog.Logger
}

func (l *loader) options(ctx context.Context, limit int) []dataset.LoadOption {
	opts := []dataset.LoadOption{dataset.WithLimit(limit)}
	if l.cfg.Normalize {
		opts = append(opts, dataset.WithNormalize())
	}
	if l.rc != nil {
		opts = append(opts, dataset.WithReaderWrapper(func(r io.Reader) io.Reader {
			return resource.NewRateLimitedReader(ctx, r, l.rc)
		}))
	}
	return opts
}

func (l *loader) groundTruth(ctx context.Context, k, numQueries int) ([][]model.Key, error) {
	if l.cfg.GroundTruth == "" {
		return nil, nil
	}
	rows, err := dataset.LoadGroundTruth(ctx, l.store, l.cfg.GroundTruth, dataset.WithLimit(numQueries))
	if err != nil {
		return nil, err
	}
	return dataset.Keys(rows, k), nil
}

func (l *loader) dense(ctx context.Context, withQueries bool, k int) (*workload[model.DenseVector], error) {
	base, err := dataset.LoadDense(ctx, l.store, l.cfg.Base, l.options(ctx, l.cfg.Limit)...)
	if err != nil {
		return nil, err
	}
	if len(base) == 0 {
		return nil, fmt.Errorf("%s contains no points", l.cfg.Base)
	}
	w := &workload[model.DenseVector]{
		base:      base,
		dimension: len(base[0]),
		dist:      distance.NegativeInnerProductDense,
	}
	l.logger.Info("loaded base", "name", l.cfg.Base, "points", len(base), "dimension", w.dimension)

	if !withQueries {
		return w, nil
	}
	if w.queries, err = dataset.LoadDense(ctx, l.store, l.cfg.Queries, l.options(ctx, l.cfg.QueryLimit)...); err != nil {
		return nil, err
	}
	if w.groundTruth, err = l.groundTruth(ctx, k, len(w.queries)); err != nil {
		return nil, err
	}
	return w, nil
}

func (l *loader) sparse(ctx context.Context, withQueries bool, k int) (*workload[model.SparseVector], error) {
	base, err := dataset.LoadSparse(ctx, l.store, l.cfg.Base, l.options(ctx, l.cfg.Limit)...)
	if err != nil {
		return nil, err
	}
	if len(base) == 0 {
		return nil, fmt.Errorf("%s contains no points", l.cfg.Base)
	}
	w := &workload[model.SparseVector]{
		base:   base,
		sparse: true,
		dist:   distance.NegativeInnerProductSparse,
	}

	if withQueries {
		if w.queries, err = dataset.LoadSparse(ctx, l.store, l.cfg.Queries, l.options(ctx, l.cfg.QueryLimit)...); err != nil {
			return nil, err
		}
		if w.groundTruth, err = l.groundTruth(ctx, k, len(w.queries)); err != nil {
			return nil, err
		}
	}

	// The dimension of a sparse data set is one past its largest index.
	for _, set := range [][]model.SparseVector{w.base, w.queries} {
		for _, v := range set {
			for _, e := range v {
				w.dimension = max(w.dimension, int(e.Index)+1)
			}
		}
	}
	l.logger.Info("loaded base", "name", l.cfg.Base, "points", len(base), "dimension", w.dimension, "sparse", true)
	return w, nil
}
