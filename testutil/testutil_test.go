package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lsh/distance"
	"github.com/hupe1980/lsh/model"
)

func TestGaussianVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.GaussianVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))
}

func TestUnitVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UnitVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))

	for _, vec := range v {
		assert.InDelta(t, 1.0, distance.Dot(vec, vec), 1e-5)
	}
}

func TestPerturb(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UnitVector(64)
	p := rng.Perturb(v, 0.01)

	assert.InDelta(t, 1.0, distance.Dot(p, p), 1e-5)
	assert.Greater(t, distance.Dot(v, p), float32(0.99))
}

func TestClusteredVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.ClusteredVectors(100, 32, 5, 0.1)

	assert.Equal(t, 100, len(v))
	assert.Equal(t, 32, len(v[0]))
}

func TestSparseUnitVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.SparseUnitVectors(10, 1000, 16)
	require.Len(t, v, 10)

	for _, vec := range v {
		require.Len(t, vec, 16)
		for i := 1; i < len(vec); i++ {
			assert.Less(t, vec[i-1].Index, vec[i].Index)
		}
		assert.InDelta(t, 1.0, distance.DotSparse(vec, vec), 1e-5)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.GaussianVectors(1, 10)
	rng.Reset()
	v2 := rng.GaussianVectors(1, 10)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestExactTopK(t *testing.T) {
	points := []model.DenseVector{{1, 0}, {0, 1}, {0.8, 0.6}, {-1, 0}}

	got := ExactTopK(model.DenseVector{1, 0}, points, 2, distance.NegativeInnerProductDense)
	assert.Equal(t, []model.Key{0, 2}, Keys(got))

	all := ExactTopK(model.DenseVector{1, 0}, points, 10, distance.NegativeInnerProductDense)
	assert.Equal(t, []model.Key{0, 2, 1, 3}, Keys(all))
}

func TestComputeRecall(t *testing.T) {
	assert.Equal(t, 1.0, ComputeRecall(nil, nil))
	assert.Equal(t, 0.0, ComputeRecall([]model.Key{1}, nil))
	assert.Equal(t, 0.5, ComputeRecall([]model.Key{1, 2}, []model.Key{2, 3}))
	assert.Equal(t, 1.0, ComputeRecall([]model.Key{1, 2, 3}, []model.Key{2, 1}))
}
