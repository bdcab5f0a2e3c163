package main

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/lsh"
	"github.com/hupe1980/lsh/dataset"
	"github.com/hupe1980/lsh/internal/resource"
	"github.com/hupe1980/lsh/model"
)

// runEnv carries what every phase of a run shares.
type runEnv struct {
	cfg      Config
	runID    string
	logger   *lsh.Logger
	metrics  *lsh.BasicMetricsCollector
	progress io.Writer // nil disables progress bars
}

// defaultHashBits matches the width lsh.DefaultParameters picks for n points.
func defaultHashBits(n int) int {
	bits := 1
	for (1 << (bits + 2)) <= n {
		bits++
	}
	return bits
}

func newBuilder[P lsh.Point](tc TableConfig, dimension, numPoints int) (lsh.Builder[P], error) {
	family, err := lsh.ParseFamily(tc.Family)
	if err != nil {
		return lsh.Builder[P]{}, err
	}
	backend, err := lsh.ParseHashTableBackend(tc.Backend)
	if err != nil {
		return lsh.Builder[P]{}, err
	}

	var b lsh.Builder[P]
	if family == lsh.Hyperplane {
		b = lsh.HyperplaneTable[P](dimension)
	} else {
		b = lsh.CrossPolytopeTable[P](dimension)
	}

	if tc.L > 0 {
		b = b.L(tc.L)
	}
	if tc.NumRotations > 0 {
		b = b.NumRotations(tc.NumRotations)
	}
	if tc.FeatureHashingDimension > 0 {
		b = b.FeatureHashingDimension(tc.FeatureHashingDimension)
	}
	switch {
	case tc.K > 0:
		b = b.K(tc.K)
		if tc.LastCPDimension > 0 {
			b = b.LastCPDimension(tc.LastCPDimension)
		}
	case tc.NumHashBits > 0:
		b = b.NumHashBits(tc.NumHashBits)
	default:
		b = b.NumHashBits(defaultHashBits(numPoints))
	}

	return b.Seed(tc.Seed).Backend(backend).BuildWorkers(tc.BuildWorkers), nil
}

func buildTable[P lsh.Point](env *runEnv, w *workload[P]) (*lsh.Table[P], *Report, error) {
	b, err := newBuilder[P](env.cfg.Table, w.dimension, len(w.base))
	if err != nil {
		return nil, nil, err
	}
	b = b.Logger(env.logger).Metrics(env.metrics)

	start := time.Now()
	t, err := b.Build(w.base)
	if err != nil {
		return nil, nil, err
	}
	elapsed := time.Since(start)

	workers := env.cfg.Table.BuildWorkers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	report := &Report{
		RunID: env.runID,
		Dataset: DatasetReport{
			Base:      env.cfg.Dataset.Base,
			NumPoints: len(w.base),
			Dimension: w.dimension,
			Sparse:    w.sparse,
		},
		Table: newTableReport(t.Parameters(), env.cfg.Table.Backend),
		Build: BuildReport{Seconds: elapsed.Seconds(), Workers: workers},
	}
	return t, report, nil
}

func newProgress(w io.Writer, total int, prefix string) *pb.ProgressBar {
	if w == nil {
		return nil
	}
	bar := pb.New(total)
	bar.SetWriter(w)
	bar.Set("prefix", prefix)
	return bar.Start()
}

// runQueries answers every query with FindKNearestNeighbors and reports
// throughput, statistics and recall.
func runQueries[P lsh.Point](ctx context.Context, env *runEnv, t *lsh.Table[P], w *workload[P]) (*QueryReport, error) {
	qc := env.cfg.Query
	concurrency := qc.Concurrency
	if concurrency < 1 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	var opts []lsh.QueryOption
	if qc.NumProbes > 0 {
		opts = append(opts, lsh.WithNumProbes(qc.NumProbes))
	}
	opts = append(opts, lsh.WithMaxNumCandidates(qc.MaxNumCandidates))

	rc := resource.NewController(resource.Config{
		MaxInFlight:      int64(concurrency),
		QueriesPerSecond: qc.QPS,
		Burst:            qc.Burst,
	})

	t.ResetQueryStatistics()
	results := make([][]model.Key, len(w.queries))
	bar := newProgress(env.progress, len(w.queries), "query ")

	start := time.Now()
	err := dispatch(ctx, rc, len(w.queries), func(i int) error {
		keys, err := t.FindKNearestNeighbors(w.queries[i], qc.K, opts...)
		if err != nil {
			return err
		}
		results[i] = keys
		if bar != nil {
			bar.Increment()
		}
		return nil
	})
	elapsed := time.Since(start)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return nil, err
	}

	report := &QueryReport{
		K:                qc.K,
		NumProbes:        t.NumProbes(),
		MaxNumCandidates: qc.MaxNumCandidates,
		Concurrency:      concurrency,
		PeakInFlight:     rc.PeakInFlight(),
		Seconds:          elapsed.Seconds(),
	}
	if qc.NumProbes > 0 {
		report.NumProbes = qc.NumProbes
	}
	if elapsed > 0 {
		report.QueriesPerSecond = float64(len(w.queries)) / elapsed.Seconds()
	}
	report.setStatistics(t.QueryStatistics())

	gt, source := w.groundTruth, "file"
	if gt == nil {
		env.logger.InfoContext(ctx, "computing exact neighbors", "queries", len(w.queries), "k", qc.K)
		if gt, err = dataset.ExactNeighbors(ctx, w.queries, w.base, qc.K, w.dist, concurrency); err != nil {
			return nil, err
		}
		source = "exact"
	}
	report.Recall = dataset.Recall(gt, results)
	report.RecallSource = source
	return report, nil
}

// dispatch runs fn for every index in [0, n), admitting each call through
// rc. The first error cancels the remaining calls.
func dispatch(ctx context.Context, rc *resource.Controller, n int, fn func(i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range n {
		if err := rc.AcquireQuery(ctx); err != nil {
			if werr := g.Wait(); werr != nil {
				return werr
			}
			return err
		}
		g.Go(func() error {
			defer rc.ReleaseQuery()
			return fn(i)
		})
	}
	return g.Wait()
}
