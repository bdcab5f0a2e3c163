package lsh

import "github.com/hupe1980/lsh/internal/lshfunc"

// ComputeNumberOfHashFunctions sets params.K (and, for the cross-polytope
// family, params.LastCPDimension) so that every repetition produces
// numberOfHashBits bits. params.Family must be set; for cross-polytope
// hashing params.Dimension (dense) or params.FeatureHashingDimension
// (sparse) must be set as well.
func ComputeNumberOfHashFunctions[P Point](numberOfHashBits int, params *Parameters) error {
	if numberOfHashBits < 1 {
		return setupError("number_of_hash_bits", ErrInvalidParameter, "number of hash bits must be at least 1, got %d", numberOfHashBits)
	}
	if numberOfHashBits > lshfunc.MaxHashBits {
		return setupError("number_of_hash_bits", lshfunc.ErrTooManyHashBits, "number of hash bits must be at most %d, got %d", lshfunc.MaxHashBits, numberOfHashBits)
	}

	traits, err := resolveTraits[P]()
	if err != nil {
		return err
	}

	switch params.Family {
	case Hyperplane:
		params.K = numberOfHashBits
		return nil
	case CrossPolytope:
		dim, field := params.Dimension, "dimension"
		if traits.sparse() {
			dim, field = params.FeatureHashingDimension, "feature_hashing_dimension"
		}
		if dim < 1 {
			return setupError(field, ErrInvalidParameter, "must be at least 1 to size a cross-polytope hash, got %d", dim)
		}
		params.K, params.LastCPDimension = lshfunc.ComputeKForBits(dim, numberOfHashBits)
		return nil
	default:
		return setupError("lsh_family", ErrUnknownFamily, "unknown hash family %d", int(params.Family))
	}
}
