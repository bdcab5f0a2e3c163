package lsh_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lsh"
)

func validParams() lsh.Parameters {
	return lsh.Parameters{
		Dimension:        16,
		K:                2,
		L:                3,
		DistanceFunction: lsh.NegativeInnerProduct,
		Family:           lsh.CrossPolytope,
		NumRotations:     1,
		LastCPDimension:  16,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(p *lsh.Parameters)
		field string
	}{
		{"zero dimension", func(p *lsh.Parameters) { p.Dimension = 0 }, "dimension"},
		{"zero dimension wins over zero k", func(p *lsh.Parameters) { p.Dimension, p.K = 0, 0 }, "dimension"},
		{"zero k", func(p *lsh.Parameters) { p.K = 0 }, "k"},
		{"zero l", func(p *lsh.Parameters) { p.L = 0 }, "l"},
		{"k wins over l", func(p *lsh.Parameters) { p.K, p.L = -1, -1 }, "k"},
		{"unknown distance", func(p *lsh.Parameters) { p.DistanceFunction = lsh.UnknownDistance }, "distance_function"},
		{"negative rotations", func(p *lsh.Parameters) { p.NumRotations = -1 }, "num_rotations"},
		{"zero last cp dimension", func(p *lsh.Parameters) { p.LastCPDimension = 0 }, "last_cp_dimension"},
		{"unknown family", func(p *lsh.Parameters) { p.Family = lsh.UnknownFamily }, "lsh_family"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.edit(&p)

			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, lsh.ErrSetup)

			var se *lsh.SetupError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.field, se.Field)
		})
	}
}

func TestValidate_Valid(t *testing.T) {
	p := validParams()
	assert.NoError(t, p.Validate())

	p.NumRotations = 0
	assert.NoError(t, p.Validate())

	// Cross-polytope fields are ignored by the hyperplane family.
	p.Family = lsh.Hyperplane
	p.NumRotations = -1
	p.LastCPDimension = 0
	assert.NoError(t, p.Validate())
}

func TestValidate_UnknownFamily(t *testing.T) {
	p := validParams()
	p.Family = lsh.Family(42)
	assert.ErrorIs(t, p.Validate(), lsh.ErrUnknownFamily)
}

func TestValidate_ZeroValue(t *testing.T) {
	assert.ErrorIs(t, lsh.Parameters{}.Validate(), lsh.ErrSetup)
}

func TestParseFamily(t *testing.T) {
	f, err := lsh.ParseFamily("hyperplane")
	require.NoError(t, err)
	assert.Equal(t, lsh.Hyperplane, f)

	f, err = lsh.ParseFamily(lsh.CrossPolytope.String())
	require.NoError(t, err)
	assert.Equal(t, lsh.CrossPolytope, f)

	_, err = lsh.ParseFamily("minhash")
	assert.ErrorIs(t, err, lsh.ErrUnknownFamily)
}

func TestDefaultParameters(t *testing.T) {
	p, err := lsh.DefaultParameters[lsh.DenseVector](1_000_000, 128, lsh.NegativeInnerProduct, true)
	require.NoError(t, err)

	assert.Equal(t, lsh.CrossPolytope, p.Family)
	assert.Equal(t, 10, p.L)
	assert.Equal(t, 1, p.NumRotations)
	assert.Equal(t, 0, p.FeatureHashingDimension)
	// 18 hash bits over 8-bit cross-polytopes: two full and one with 2 bits.
	assert.Equal(t, 3, p.K)
	assert.Equal(t, 2, p.LastCPDimension)
	assert.NoError(t, p.Validate())

	sp, err := lsh.DefaultParameters[lsh.SparseVector](1_000_000, 100_000, lsh.NegativeInnerProduct, false)
	require.NoError(t, err)
	assert.Equal(t, 2, sp.NumRotations)
	assert.Equal(t, 1024, sp.FeatureHashingDimension)
	// 18 hash bits over 11-bit cross-polytopes: one full and one with 7 bits.
	assert.Equal(t, 2, sp.K)
	assert.Equal(t, 64, sp.LastCPDimension)

	small, err := lsh.DefaultParameters[lsh.DenseVector](3, 8, lsh.NegativeInnerProduct, true)
	require.NoError(t, err)
	assert.Equal(t, 1, small.K)
	assert.Equal(t, 1, small.LastCPDimension)
}
