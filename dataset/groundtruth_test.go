package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lsh/distance"
	"github.com/hupe1980/lsh/model"
	"github.com/hupe1980/lsh/testutil"
)

func TestExactNeighbors(t *testing.T) {
	base := []model.DenseVector{{1, 0}, {0, 1}, {0.9, 0.1}, {-1, 0}}
	queries := []model.DenseVector{{1, 0}, {0, 1}}

	got, err := ExactNeighbors(context.Background(), queries, base, 2, distance.NegativeInnerProductDense, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]model.Key{{0, 2}, {1, 2}}, got)

	all, err := ExactNeighbors(context.Background(), queries[:1], base, 10, distance.NegativeInnerProductDense, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]model.Key{{0, 2, 1, 3}}, all)

	_, err = ExactNeighbors(context.Background(), queries, base, 0, distance.NegativeInnerProductDense, 1)
	assert.Error(t, err)
}

func TestExactNeighbors_MatchesTestutil(t *testing.T) {
	rng := testutil.NewRNG(11)
	base := rng.UnitVectors(300, 16)
	queries := rng.UnitVectors(20, 16)

	got, err := ExactNeighbors(context.Background(), queries, base, 5, distance.NegativeInnerProductDense, 4)
	require.NoError(t, err)
	for i, q := range queries {
		want := testutil.Keys(testutil.ExactTopK(q, base, 5, distance.NegativeInnerProductDense))
		assert.Equal(t, want, got[i], "query %d", i)
	}
}

func TestExactNeighbors_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	base := []model.DenseVector{{1}}
	_, err := ExactNeighbors(ctx, []model.DenseVector{{1}, {2}}, base, 1, distance.NegativeInnerProductDense, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeysAndRecall(t *testing.T) {
	gt := Keys([][]int32{{4, 2, 9}, {1, -1, 3}}, 2)
	assert.Equal(t, [][]model.Key{{4, 2}, {1}}, gt)

	approx := [][]model.Key{{2, 7}, {1}}
	assert.InDelta(t, 0.75, Recall(gt, approx), 1e-9)

	assert.InDelta(t, 0.25, Recall(gt, approx[:1]), 1e-9)
	assert.Zero(t, Recall(nil, approx))
}
