package lsh

import (
	"errors"
	"fmt"

	"github.com/hupe1980/lsh/distance"
	"github.com/hupe1980/lsh/internal/lshfunc"
	"github.com/hupe1980/lsh/model"
)

// pointTraits binds a point representation to its distance function, its
// hash-function constructors and its query validation.
type pointTraits[P Point] interface {
	sparse() bool
	distance() distance.Func[P]
	hyperplane(params Parameters, seed uint64) (lshfunc.Function[P], error)
	crossPolytope(params Parameters, seed uint64) (lshfunc.Function[P], error)
	check(q P, dimension int) error
}

func resolveTraits[P Point]() (pointTraits[P], error) {
	var zero P
	switch any(zero).(type) {
	case model.DenseVector:
		return any(denseTraits{}).(pointTraits[P]), nil
	case model.SparseVector:
		return any(sparseTraits{}).(pointTraits[P]), nil
	default:
		return nil, setupError("point_type", ErrUnsupportedPointType, "no hash family for %T", zero)
	}
}

// newFunction builds the hash function selected by params.Family.
func newFunction[P Point](traits pointTraits[P], params Parameters) (lshfunc.Function[P], error) {
	seed := params.Seed ^ lshfunc.SeedMask

	var (
		fn  lshfunc.Function[P]
		err error
	)
	switch params.Family {
	case Hyperplane:
		fn, err = traits.hyperplane(params, seed)
	case CrossPolytope:
		fn, err = traits.crossPolytope(params, seed)
	default:
		return nil, setupError("lsh_family", ErrUnknownFamily, "unknown hash family %d", int(params.Family))
	}
	if err != nil {
		var iae *lshfunc.ErrInvalidArgument
		if errors.As(err, &iae) {
			return nil, &SetupError{Field: iae.Name, Reason: iae.Error(), cause: fmt.Errorf("%w: %w", ErrInvalidParameter, err)}
		}
		return nil, &SetupError{Reason: err.Error(), cause: err}
	}
	return fn, nil
}

type denseTraits struct{}

func (denseTraits) sparse() bool { return false }

func (denseTraits) distance() distance.Func[model.DenseVector] {
	return distance.NegativeInnerProductDense
}

func (denseTraits) hyperplane(p Parameters, seed uint64) (lshfunc.Function[model.DenseVector], error) {
	return lshfunc.NewHyperplaneDense(p.Dimension, p.K, p.L, seed)
}

func (denseTraits) crossPolytope(p Parameters, seed uint64) (lshfunc.Function[model.DenseVector], error) {
	return lshfunc.NewCrossPolytopeDense(p.Dimension, p.K, p.L, p.NumRotations, p.LastCPDimension, seed)
}

func (denseTraits) check(q model.DenseVector, dimension int) error {
	if len(q) != dimension {
		return &ErrDimensionMismatch{Expected: dimension, Actual: len(q)}
	}
	return nil
}

type sparseTraits struct{}

func (sparseTraits) sparse() bool { return true }

func (sparseTraits) distance() distance.Func[model.SparseVector] {
	return distance.NegativeInnerProductSparse
}

func (sparseTraits) hyperplane(p Parameters, seed uint64) (lshfunc.Function[model.SparseVector], error) {
	return lshfunc.NewHyperplaneSparse(p.Dimension, p.K, p.L, seed)
}

func (sparseTraits) crossPolytope(p Parameters, seed uint64) (lshfunc.Function[model.SparseVector], error) {
	return lshfunc.NewCrossPolytopeSparse(p.Dimension, p.K, p.L, p.NumRotations, p.FeatureHashingDimension, p.LastCPDimension, seed)
}

func (sparseTraits) check(q model.SparseVector, dimension int) error {
	for _, e := range q {
		if e.Index < 0 || int(e.Index) >= dimension {
			return fmt.Errorf("%w: index %d, dimension %d", ErrIndexOutOfRange, e.Index, dimension)
		}
	}
	return nil
}
