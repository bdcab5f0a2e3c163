package lsh_test

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lsh"
	"github.com/hupe1980/lsh/distance"
	"github.com/hupe1980/lsh/testutil"
)

func hyperplaneParams(dim int) lsh.Parameters {
	return lsh.Parameters{
		Dimension:        dim,
		K:                8,
		L:                10,
		DistanceFunction: lsh.NegativeInnerProduct,
		Family:           lsh.Hyperplane,
		Seed:             4057218,
	}
}

func crossPolytopeParams(dim int) lsh.Parameters {
	p := lsh.Parameters{
		Dimension:        dim,
		L:                10,
		DistanceFunction: lsh.NegativeInnerProduct,
		Family:           lsh.CrossPolytope,
		NumRotations:     2,
		Seed:             4057218,
	}
	if err := lsh.ComputeNumberOfHashFunctions[lsh.DenseVector](12, &p); err != nil {
		panic(err)
	}
	return p
}

func newDenseTable(t *testing.T, n, dim int, params lsh.Parameters, opts ...lsh.Option) (*lsh.Table[lsh.DenseVector], []lsh.DenseVector) {
	t.Helper()
	points := testutil.NewRNG(4711).UnitVectors(n, dim)
	table, err := lsh.NewTable(points, params, opts...)
	require.NoError(t, err)
	return table, points
}

func TestNewTable_EndToEndHyperplane(t *testing.T) {
	table, points := newDenseTable(t, 1000, 128, hyperplaneParams(128))

	assert.Equal(t, 10, table.NumProbes())
	assert.Equal(t, lsh.NoMaxNumCandidates, table.MaxNumCandidates())
	assert.Equal(t, 1000, table.Len())

	q := slices.Clone(points[42])
	key, err := table.FindClosest(q)
	require.NoError(t, err)
	assert.Equal(t, lsh.Key(42), key)

	keys, err := table.FindKNearestNeighbors(q, 1000)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(keys), 1000)
	seen := make(map[lsh.Key]struct{}, len(keys))
	for _, k := range keys {
		assert.Less(t, int(k), len(points))
		seen[k] = struct{}{}
	}
	assert.Len(t, seen, len(keys))
	assert.Equal(t, lsh.Key(42), keys[0])
}

func TestNewTable_EndToEndCrossPolytope(t *testing.T) {
	table, points := newDenseTable(t, 1000, 64, crossPolytopeParams(64))

	for _, i := range []int{0, 42, 999} {
		key, err := table.FindClosest(points[i])
		require.NoError(t, err)
		assert.Equal(t, lsh.Key(i), key)
	}
}

func TestNewTable_Recall(t *testing.T) {
	rng := testutil.NewRNG(99)
	points := rng.ClusteredVectors(2000, 32, 50, 0.05)

	table, err := lsh.NewTable(points, crossPolytopeParams(32))
	require.NoError(t, err)
	require.NoError(t, table.SetNumProbes(40))

	var recall float64
	const numQueries = 50
	for i := 0; i < numQueries; i++ {
		q := rng.Perturb(points[rng.Intn(len(points))], 0.02)
		truth := testutil.Keys(testutil.ExactTopK(q, points, 10, distance.NegativeInnerProductDense))

		got, err := table.FindKNearestNeighbors(q, 10)
		require.NoError(t, err)
		recall += testutil.ComputeRecall(truth, got)
	}
	assert.Greater(t, recall/numQueries, 0.5)
}

func TestNewTable_SetupErrors(t *testing.T) {
	points := testutil.NewRNG(1).UnitVectors(10, 8)

	p := hyperplaneParams(8)
	p.Dimension = 0
	_, err := lsh.NewTable(points, p)
	assert.ErrorIs(t, err, lsh.ErrSetup)

	p = crossPolytopeParams(8)
	p.NumRotations = -1
	_, err = lsh.NewTable(points, p)
	assert.ErrorIs(t, err, lsh.ErrSetup)

	p.NumRotations = 0
	_, err = lsh.NewTable(points, p)
	assert.NoError(t, err)

	p = hyperplaneParams(8)
	p.K = 65
	_, err = lsh.NewTable(points, p)
	assert.ErrorIs(t, err, lsh.ErrSetup)

	p = hyperplaneParams(16)
	_, err = lsh.NewTable(points, p)
	var se *lsh.SetupError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "points", se.Field)
	var dm *lsh.ErrDimensionMismatch
	assert.True(t, errors.As(err, &dm))
}

func TestNewTable_SparseCrossPolytopeNeedsFeatureHashing(t *testing.T) {
	points := testutil.NewRNG(7).SparseUnitVectors(100, 10_000, 8)
	params := lsh.Parameters{
		Dimension:        10_000,
		K:                2,
		L:                5,
		DistanceFunction: lsh.NegativeInnerProduct,
		Family:           lsh.CrossPolytope,
		NumRotations:     2,
		LastCPDimension:  4,
	}

	_, err := lsh.NewTable(points, params)
	require.ErrorIs(t, err, lsh.ErrSetup)
	var se *lsh.SetupError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "feature_hashing_dimension", se.Field)

	params.FeatureHashingDimension = 64
	table, err := lsh.NewTable(points, params)
	require.NoError(t, err)

	key, err := table.FindClosest(points[17])
	require.NoError(t, err)
	assert.Equal(t, lsh.Key(17), key)
}

func TestNewTable_SparseHyperplane(t *testing.T) {
	points := testutil.NewRNG(7).SparseUnitVectors(200, 5_000, 8)
	params := hyperplaneParams(5_000)

	table, err := lsh.NewTable(points, params)
	require.NoError(t, err)

	key, err := table.FindClosest(points[3])
	require.NoError(t, err)
	assert.Equal(t, lsh.Key(3), key)

	_, err = table.FindClosest(lsh.SparseVector{{Index: 5_000, Value: 1}})
	assert.ErrorIs(t, err, lsh.ErrIndexOutOfRange)
	_, err = table.FindClosest(lsh.SparseVector{{Index: -1, Value: 1}})
	assert.ErrorIs(t, err, lsh.ErrIndexOutOfRange)
}

func TestNewTable_Empty(t *testing.T) {
	table, err := lsh.NewTable([]lsh.DenseVector{}, hyperplaneParams(4))
	require.NoError(t, err)

	_, err = table.FindClosest(lsh.DenseVector{1, 0, 0, 0})
	assert.ErrorIs(t, err, lsh.ErrNoCandidates)

	keys, err := table.FindKNearestNeighbors(lsh.DenseVector{1, 0, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSetNumProbes(t *testing.T) {
	table, _ := newDenseTable(t, 50, 8, hyperplaneParams(8))

	for _, p := range []int{0, -1} {
		err := table.SetNumProbes(p)
		assert.ErrorIs(t, err, lsh.ErrUsage)
		var ue *lsh.UsageError
		assert.True(t, errors.As(err, &ue))
		assert.Equal(t, 10, table.NumProbes())
	}

	require.NoError(t, table.SetNumProbes(25))
	assert.Equal(t, 25, table.NumProbes())

	table.SetMaxNumCandidates(7)
	assert.Equal(t, 7, table.MaxNumCandidates())
}

func TestCandidateSets(t *testing.T) {
	table, points := newDenseTable(t, 500, 16, hyperplaneParams(16))

	for _, numProbes := range []int{1, 10, 50} {
		q := points[numProbes]
		opt := lsh.WithNumProbes(numProbes)

		dups, err := table.GetCandidatesWithDuplicates(q, opt)
		require.NoError(t, err)
		unique, err := table.GetUniqueCandidates(q, opt)
		require.NoError(t, err)
		sorted, err := table.GetUniqueSortedCandidates(q, opt)
		require.NoError(t, err)

		assert.Subset(t, dups, unique)
		assert.ElementsMatch(t, unique, sorted)
		assert.True(t, slices.IsSorted(sorted))
		assert.Len(t, slices.Compact(slices.Clone(sorted)), len(sorted))

		knn, err := table.FindKNearestNeighbors(q, 20, opt)
		require.NoError(t, err)
		assert.Len(t, knn, min(20, len(unique)))
		for i := 1; i < len(knn); i++ {
			prev := distance.NegativeInnerProductDense(q, points[knn[i-1]])
			cur := distance.NegativeInnerProductDense(q, points[knn[i]])
			assert.LessOrEqual(t, prev, cur)
		}

		near, err := table.FindNearNeighbors(q, -0.5, opt)
		require.NoError(t, err)
		assert.Subset(t, unique, near)
		for _, k := range near {
			assert.Less(t, distance.NegativeInnerProductDense(q, points[k]), float32(-0.5))
		}
	}
}

func TestQueryOptionsOverrideKnobs(t *testing.T) {
	table, points := newDenseTable(t, 500, 16, hyperplaneParams(16))
	q := points[0]

	all, err := table.GetCandidatesWithDuplicates(q)
	require.NoError(t, err)
	require.Greater(t, len(all), 5)

	capped, err := table.GetCandidatesWithDuplicates(q, lsh.WithMaxNumCandidates(5))
	require.NoError(t, err)
	assert.Equal(t, all[:5], capped)

	table.SetMaxNumCandidates(5)
	capped, err = table.GetCandidatesWithDuplicates(q)
	require.NoError(t, err)
	assert.Len(t, capped, 5)

	uncapped, err := table.GetCandidatesWithDuplicates(q, lsh.WithMaxNumCandidates(lsh.NoMaxNumCandidates))
	require.NoError(t, err)
	assert.Equal(t, all, uncapped)

	_, err = table.FindClosest(q, lsh.WithMaxNumCandidates(0))
	assert.ErrorIs(t, err, lsh.ErrNoCandidates)

	_, err = table.GetUniqueCandidates(q, lsh.WithNumProbes(0))
	assert.ErrorIs(t, err, lsh.ErrUsage)
	assert.Equal(t, 5, table.MaxNumCandidates())
	assert.Equal(t, 10, table.NumProbes())
}

func TestFindKNearestNeighbors_InvalidK(t *testing.T) {
	table, points := newDenseTable(t, 10, 8, hyperplaneParams(8))

	_, err := table.FindKNearestNeighbors(points[0], 0)
	assert.ErrorIs(t, err, lsh.ErrUsage)
}

func TestQueryStatistics(t *testing.T) {
	table, points := newDenseTable(t, 200, 8, hyperplaneParams(8))

	_, err := table.FindClosest(points[0])
	require.NoError(t, err)

	table.ResetQueryStatistics()
	assert.Equal(t, lsh.QueryStatistics{}, table.QueryStatistics())

	_, err = table.GetUniqueCandidates(points[1])
	require.NoError(t, err)
	stats := table.QueryStatistics()
	assert.Equal(t, int64(1), stats.NumQueries)
	assert.Greater(t, stats.AverageNumCandidates, 0.0)
	assert.GreaterOrEqual(t, stats.AverageNumCandidates, stats.AverageNumUniqueCandidates)
	assert.GreaterOrEqual(t, stats.AverageTotalQueryTime, stats.AverageHashTableTime)

	_, err = table.FindClosest(points[2], lsh.WithMaxNumCandidates(0))
	assert.ErrorIs(t, err, lsh.ErrNoCandidates)
	assert.Equal(t, int64(2), table.QueryStatistics().NumQueries)

	_, err = table.FindClosest(lsh.DenseVector{1, 2})
	var dm *lsh.ErrDimensionMismatch
	require.True(t, errors.As(err, &dm))
	assert.Equal(t, 8, dm.Expected)
	assert.Equal(t, 2, dm.Actual)
	assert.Equal(t, int64(2), table.QueryStatistics().NumQueries)
}

func TestBackendsAgree(t *testing.T) {
	points := testutil.NewRNG(3).UnitVectors(800, 32)
	params := crossPolytopeParams(32)

	lp, err := lsh.NewTable(points, params, lsh.WithHashTableBackend(lsh.LinearProbingBackend))
	require.NoError(t, err)
	rb, err := lsh.NewTable(points, params, lsh.WithHashTableBackend(lsh.RoaringBackend))
	require.NoError(t, err)

	for _, q := range points[:20] {
		a, err := lp.GetUniqueSortedCandidates(q, lsh.WithNumProbes(30))
		require.NoError(t, err)
		b, err := rb.GetUniqueSortedCandidates(q, lsh.WithNumProbes(30))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	points := testutil.NewRNG(5).UnitVectors(3000, 16)
	params := hyperplaneParams(16)

	serial, err := lsh.NewTable(points, params, lsh.WithBuildWorkers(1))
	require.NoError(t, err)
	parallel, err := lsh.NewTable(points, params, lsh.WithBuildWorkers(8))
	require.NoError(t, err)

	for _, q := range points[:20] {
		a, err := serial.GetCandidatesWithDuplicates(q)
		require.NoError(t, err)
		b, err := parallel.GetCandidatesWithDuplicates(q)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestConcurrentQueries(t *testing.T) {
	table, points := newDenseTable(t, 500, 16, hyperplaneParams(16))
	table.ResetQueryStatistics()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				idx := (g*25 + i) % len(points)
				key, err := table.FindClosest(points[idx])
				assert.NoError(t, err)
				assert.Equal(t, lsh.Key(idx), key)
				if i%5 == 0 {
					assert.NoError(t, table.SetNumProbes(10+g))
				}
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, int64(200), table.QueryStatistics().NumQueries)
}

func TestMetricsAndLogging(t *testing.T) {
	metrics := &lsh.BasicMetricsCollector{}
	table, points := newDenseTable(t, 100, 8, hyperplaneParams(8),
		lsh.WithMetricsCollector(metrics),
		lsh.WithLogger(lsh.NoopLogger()),
	)

	keys, err := table.FindKNearestNeighbors(points[0], 3, lsh.WithNumProbes(100))
	require.NoError(t, err)
	_, err = table.FindClosest(points[0], lsh.WithMaxNumCandidates(0))
	require.Error(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.BuildCount)
	assert.Equal(t, int64(100), stats.BuildPoints)
	assert.Equal(t, int64(2), stats.QueryCount)
	assert.Equal(t, int64(1), stats.QueryErrors)
	assert.Equal(t, int64(len(keys)), stats.QueryResults)
}
