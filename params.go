package lsh

import "fmt"

// DistanceFunction selects the distance a table ranks candidates by.
type DistanceFunction int

const (
	// UnknownDistance is the zero value and is rejected by Validate.
	UnknownDistance DistanceFunction = iota
	// NegativeInnerProduct ranks by -<p, q>. For unit vectors this orders
	// points like cosine similarity.
	NegativeInnerProduct
)

func (d DistanceFunction) String() string {
	switch d {
	case NegativeInnerProduct:
		return "negative_inner_product"
	default:
		return "unknown"
	}
}

// Family selects the locality-sensitive hash family.
type Family int

const (
	// UnknownFamily is the zero value and is rejected by Validate.
	UnknownFamily Family = iota
	// Hyperplane hashes a point to the signs of random projections.
	Hyperplane
	// CrossPolytope hashes a point to the closest signed axis after a
	// pseudo-random rotation.
	CrossPolytope
)

func (f Family) String() string {
	switch f {
	case Hyperplane:
		return "hyperplane"
	case CrossPolytope:
		return "cross_polytope"
	default:
		return "unknown"
	}
}

// ParseFamily parses the String form of a Family.
func ParseFamily(s string) (Family, error) {
	switch s {
	case "hyperplane":
		return Hyperplane, nil
	case "cross_polytope", "crosspolytope", "cp":
		return CrossPolytope, nil
	default:
		return UnknownFamily, fmt.Errorf("%w: %q", ErrUnknownFamily, s)
	}
}

// Parameters describes how a table is built. The zero value is invalid.
type Parameters struct {
	// Dimension of the points.
	Dimension int
	// K is the number of hash functions concatenated per repetition.
	K int
	// L is the number of repetitions (hash tables).
	L int
	// DistanceFunction must be NegativeInnerProduct.
	DistanceFunction DistanceFunction
	// Family selects the hash family.
	Family Family
	// NumRotations is the number of pseudo-random rotations applied before
	// a cross-polytope hash. Cross-polytope only.
	NumRotations int
	// LastCPDimension is the dimension of the last cross-polytope function
	// of each repetition. Cross-polytope only.
	LastCPDimension int
	// FeatureHashingDimension is the dimension sparse points are hashed
	// into before a cross-polytope hash. Sparse cross-polytope only.
	FeatureHashingDimension int
	// Seed makes construction deterministic.
	Seed uint64
}

// Validate checks the parameters in a fixed order and reports the first
// violation as a *SetupError.
func (p Parameters) Validate() error {
	if p.Dimension < 1 {
		return setupError("dimension", ErrInvalidParameter, "point dimension must be at least 1, got %d", p.Dimension)
	}
	if p.K < 1 {
		return setupError("k", ErrInvalidParameter, "number of hash functions must be at least 1, got %d", p.K)
	}
	if p.L < 1 {
		return setupError("l", ErrInvalidParameter, "number of hash tables must be at least 1, got %d", p.L)
	}
	if p.DistanceFunction != NegativeInnerProduct {
		return setupError("distance_function", ErrInvalidParameter, "unsupported distance function %s", p.DistanceFunction)
	}

	switch p.Family {
	case Hyperplane:
		return nil
	case CrossPolytope:
		if p.NumRotations < 0 {
			return setupError("num_rotations", ErrInvalidParameter, "number of rotations must be non-negative, got %d", p.NumRotations)
		}
		if p.LastCPDimension < 1 {
			return setupError("last_cp_dimension", ErrInvalidParameter, "last cross-polytope dimension must be at least 1, got %d", p.LastCPDimension)
		}
		return nil
	default:
		return setupError("lsh_family", ErrUnknownFamily, "unknown hash family %d", int(p.Family))
	}
}

const (
	defaultNumTables               = 10
	defaultFeatureHashingDimension = 1024
)

// DefaultParameters returns recommended parameters for a data set of
// datasetSize points. The hash width grows with log2(datasetSize) so that
// buckets hold a handful of points each. isSufficientlyDense selects a
// single rotation for dense data and two otherwise.
func DefaultParameters[P Point](datasetSize, dimension int, distanceFunction DistanceFunction, isSufficientlyDense bool) (Parameters, error) {
	params := Parameters{
		Dimension:        dimension,
		DistanceFunction: distanceFunction,
		Family:           CrossPolytope,
		L:                defaultNumTables,
		NumRotations:     2,
	}
	if isSufficientlyDense {
		params.NumRotations = 1
	}

	traits, err := resolveTraits[P]()
	if err != nil {
		return Parameters{}, err
	}
	if traits.sparse() {
		params.FeatureHashingDimension = defaultFeatureHashingDimension
	}

	numberOfHashBits := 1
	for (1 << (numberOfHashBits + 2)) <= datasetSize {
		numberOfHashBits++
	}
	if err := ComputeNumberOfHashFunctions[P](numberOfHashBits, &params); err != nil {
		return Parameters{}, err
	}
	return params, nil
}
