package distance

import (
	"testing"

	"github.com/hupe1980/lsh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Mixed", []float32{1, -1, 2}, []float32{1, 1, -2}, -4},
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{2}, []float32{3}, 6},
		{"Large", make([]float32, 1024), make([]float32, 1024), 0},
	}

	for i := range tests[5].a {
		tests[5].a[i] = 1
		tests[5].b[i] = 1
	}
	tests[5].expected = 1024

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dot(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-4)
		})
	}
}

func TestNegativeInnerProductDense(t *testing.T) {
	a := model.DenseVector{1, 0, 0}
	b := model.DenseVector{0.5, 0.5, 0}
	assert.InDelta(t, -0.5, NegativeInnerProductDense(a, b), 1e-6)
	assert.InDelta(t, -1.0, NegativeInnerProductDense(a, a), 1e-6)
}

func TestDotSparse(t *testing.T) {
	tests := []struct {
		name     string
		a, b     model.SparseVector
		expected float32
	}{
		{
			name:     "SortedOverlap",
			a:        model.SparseVector{{0, 1}, {3, 2}, {7, 3}},
			b:        model.SparseVector{{3, 4}, {7, 1}, {9, 5}},
			expected: 11,
		},
		{
			name:     "Unsorted",
			a:        model.SparseVector{{7, 3}, {0, 1}, {3, 2}},
			b:        model.SparseVector{{9, 5}, {3, 4}, {7, 1}},
			expected: 11,
		},
		{
			name:     "Disjoint",
			a:        model.SparseVector{{1, 1}},
			b:        model.SparseVector{{2, 1}},
			expected: 0,
		},
		{
			name:     "Empty",
			a:        nil,
			b:        model.SparseVector{{2, 1}},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, DotSparse(tt.a, tt.b), 1e-6)
			assert.InDelta(t, tt.expected, DotSparse(tt.b, tt.a), 1e-6)
			assert.InDelta(t, -tt.expected, NegativeInnerProductSparse(tt.a, tt.b), 1e-6)
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("Dense", func(t *testing.T) {
		v := []float32{3, 4}
		require.True(t, NormalizeDense(v))
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)
		assert.False(t, NormalizeDense([]float32{0, 0}))
		assert.False(t, NormalizeDense(nil))
	})

	t.Run("Sparse", func(t *testing.T) {
		v := model.SparseVector{{10, 3}, {2, 4}}
		require.True(t, NormalizeSparse(v))
		assert.InDelta(t, 0.6, v[0].Value, 1e-6)
		assert.InDelta(t, 0.8, v[1].Value, 1e-6)
		assert.False(t, NormalizeSparse(model.SparseVector{{1, 0}}))
	})
}

func TestProvider(t *testing.T) {
	df, err := DenseProvider(MetricNegativeInnerProduct)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, df(model.DenseVector{1}, model.DenseVector{1}), 1e-6)

	sf, err := SparseProvider(MetricNegativeInnerProduct)
	require.NoError(t, err)
	assert.InDelta(t, -2.0, sf(model.SparseVector{{0, 2}}, model.SparseVector{{0, 1}}), 1e-6)

	_, err = DenseProvider(MetricUnknown)
	assert.Error(t, err)
	_, err = SparseProvider(Metric(42))
	assert.Error(t, err)

	assert.Equal(t, "NegativeInnerProduct", MetricNegativeInnerProduct.String())
	assert.Equal(t, "Unknown(42)", Metric(42).String())
}
