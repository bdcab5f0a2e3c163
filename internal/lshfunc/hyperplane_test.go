package lshfunc

import (
	"math/rand/v2"
	"testing"

	"github.com/hupe1980/lsh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomDense(rng *rand.Rand, dim int) model.DenseVector {
	v := make(model.DenseVector, dim)
	for i := range v {
		v[i] = float32(rng.NormFloat64())
	}
	return v
}

func toSparse(v model.DenseVector) model.SparseVector {
	var s model.SparseVector
	for i := len(v) - 1; i >= 0; i-- {
		if v[i] != 0 {
			s = append(s, model.SparseEntry{Index: int32(i), Value: v[i]})
		}
	}
	return s
}

func TestNewHyperplaneErrors(t *testing.T) {
	_, err := NewHyperplaneDense(0, 4, 2, 1)
	require.Error(t, err)

	_, err = NewHyperplaneDense(8, 0, 2, 1)
	require.Error(t, err)

	_, err = NewHyperplaneSparse(8, 4, 0, 1)
	require.Error(t, err)

	_, err = NewHyperplaneDense(8, 65, 1, 1)
	var iae *ErrInvalidArgument
	require.ErrorAs(t, err, &iae)
	assert.Equal(t, "k", iae.Name)
}

func TestHyperplaneDeterministic(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	p := randomDense(rng, 32)

	h1, err := NewHyperplaneDense(32, 8, 4, 99)
	require.NoError(t, err)
	h2, err := NewHyperplaneDense(32, 8, 4, 99)
	require.NoError(t, err)

	a := make([]uint64, 4)
	b := make([]uint64, 4)
	h1.Hash(p, a)
	h2.Hash(p, b)
	assert.Equal(t, a, b)

	for _, bucket := range a {
		assert.Less(t, bucket, uint64(1)<<8)
	}
}

func TestHyperplaneSparseMatchesDense(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	dense, err := NewHyperplaneDense(16, 6, 5, 42)
	require.NoError(t, err)
	sparse, err := NewHyperplaneSparse(16, 6, 5, 42)
	require.NoError(t, err)

	for range 20 {
		p := randomDense(rng, 16)
		a := make([]uint64, 5)
		b := make([]uint64, 5)
		dense.Hash(p, a)
		sparse.Hash(toSparse(p), b)
		assert.Equal(t, a, b)
	}
}

func TestHyperplaneProbeSequence(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	h, err := NewHyperplaneDense(16, 4, 3, 7)
	require.NoError(t, err)
	p := randomDense(rng, 16)

	primary := make([]uint64, 3)
	h.Hash(p, primary)

	t.Run("FewerProbesThanTables", func(t *testing.T) {
		probes := h.ProbeSequence(p, 2, nil)
		require.Len(t, probes, 2)
		assert.Equal(t, model.Probe{Table: 0, Bucket: primary[0]}, probes[0])
		assert.Equal(t, model.Probe{Table: 1, Bucket: primary[1]}, probes[1])
	})

	t.Run("PrimaryFirst", func(t *testing.T) {
		probes := h.ProbeSequence(p, 10, nil)
		require.Len(t, probes, 10)
		for i := range 3 {
			assert.Equal(t, model.Probe{Table: i, Bucket: primary[i]}, probes[i])
		}
	})

	t.Run("ExhaustsAllBuckets", func(t *testing.T) {
		// 3 tables x 2^4 buckets.
		probes := h.ProbeSequence(p, 100, nil)
		require.Len(t, probes, 48)

		seen := make(map[model.Probe]bool)
		for _, pr := range probes {
			assert.False(t, seen[pr], "duplicate probe %v", pr)
			seen[pr] = true
		}
	})

	t.Run("SingleBitFlipsFollowPrimaries", func(t *testing.T) {
		probes := h.ProbeSequence(p, 4, nil)
		flipped := probes[3]
		diff := flipped.Bucket ^ primary[flipped.Table]
		assert.Equal(t, 1, popcount(diff))
	})
}

func popcount(x uint64) int {
	n := 0
	for x != 0 {
		x &= x - 1
		n++
	}
	return n
}
