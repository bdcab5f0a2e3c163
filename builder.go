package lsh

import "github.com/hupe1980/lsh/internal/lshfunc"

// This file implements family-specific fluent builder APIs for creating tables.
// Builders are immutable - each method returns a new builder with the updated configuration.

// HyperplaneTable creates a builder for a hyperplane LSH table over points of
// the given dimension.
//
// Example:
//
//	table, err := lsh.HyperplaneTable[lsh.DenseVector](128).
//	    K(16).
//	    L(10).
//	    Seed(42).
//	    Build(points)
func HyperplaneTable[P Point](dimension int) Builder[P] {
	return Builder[P]{
		params: Parameters{
			Dimension:        dimension,
			DistanceFunction: NegativeInnerProduct,
			Family:           Hyperplane,
			L:                defaultNumTables,
		},
	}
}

// CrossPolytopeTable creates a builder for a cross-polytope LSH table over
// points of the given dimension. It defaults to one rotation for dense
// points and two rotations plus a feature hashing dimension of 1024 for
// sparse points.
//
// Example:
//
//	table, err := lsh.CrossPolytopeTable[lsh.DenseVector](128).
//	    NumHashBits(18).
//	    L(10).
//	    Build(points)
func CrossPolytopeTable[P Point](dimension int) Builder[P] {
	b := Builder[P]{
		params: Parameters{
			Dimension:        dimension,
			DistanceFunction: NegativeInnerProduct,
			Family:           CrossPolytope,
			L:                defaultNumTables,
			NumRotations:     1,
		},
	}
	if traits, err := resolveTraits[P](); err == nil && traits.sparse() {
		b.params.NumRotations = 2
		b.params.FeatureHashingDimension = defaultFeatureHashingDimension
	}
	return b
}

// Builder is an immutable fluent builder for LSH tables.
// Each method returns a new builder with the updated configuration.
type Builder[P Point] struct {
	params           Parameters
	numHashBits      int
	numProbes        int
	maxNumCandidates *int
	opts             []Option
}

// K sets the number of hash functions per repetition.
func (b Builder[P]) K(k int) Builder[P] {
	b.params.K = k
	b.numHashBits = 0
	return b
}

// NumHashBits derives K (and the last cross-polytope dimension) from a
// bucket width in bits at Build time. It overrides K.
func (b Builder[P]) NumHashBits(bits int) Builder[P] {
	b.numHashBits = bits
	return b
}

// L sets the number of repetitions. Default: 10.
func (b Builder[P]) L(l int) Builder[P] {
	b.params.L = l
	return b
}

// NumRotations sets the number of pseudo-random rotations of a
// cross-polytope hash.
func (b Builder[P]) NumRotations(n int) Builder[P] {
	b.params.NumRotations = n
	return b
}

// LastCPDimension sets the dimension of the last cross-polytope function
// of each repetition.
func (b Builder[P]) LastCPDimension(d int) Builder[P] {
	b.params.LastCPDimension = d
	return b
}

// FeatureHashingDimension sets the dimension sparse points are hashed into
// before a cross-polytope hash.
func (b Builder[P]) FeatureHashingDimension(d int) Builder[P] {
	b.params.FeatureHashingDimension = d
	return b
}

// Seed sets the seed for deterministic construction.
func (b Builder[P]) Seed(seed uint64) Builder[P] {
	b.params.Seed = seed
	return b
}

// NumProbes sets the initial number of probes of the built table.
// Default: L.
func (b Builder[P]) NumProbes(n int) Builder[P] {
	b.numProbes = n
	return b
}

// MaxNumCandidates sets the initial candidate cap of the built table.
func (b Builder[P]) MaxNumCandidates(n int) Builder[P] {
	b.maxNumCandidates = &n
	return b
}

// Logger sets the structured logger.
func (b Builder[P]) Logger(l *Logger) Builder[P] {
	return b.with(WithLogger(l))
}

// Metrics sets the metrics collector.
func (b Builder[P]) Metrics(mc MetricsCollector) Builder[P] {
	return b.with(WithMetricsCollector(mc))
}

// BuildWorkers sets the number of goroutines hashing points.
func (b Builder[P]) BuildWorkers(n int) Builder[P] {
	return b.with(WithBuildWorkers(n))
}

// Backend selects the hash table implementation.
func (b Builder[P]) Backend(backend HashTableBackend) Builder[P] {
	return b.with(WithHashTableBackend(backend))
}

func (b Builder[P]) with(o Option) Builder[P] {
	opts := make([]Option, len(b.opts), len(b.opts)+1)
	copy(opts, b.opts)
	b.opts = append(opts, o)
	return b
}

// Parameters returns the construction parameters the builder would use.
// Without NumHashBits or LastCPDimension a cross-polytope builder uses
// full-width cross-polytopes throughout.
func (b Builder[P]) Parameters() (Parameters, error) {
	params := b.params
	if b.numHashBits != 0 {
		if err := ComputeNumberOfHashFunctions[P](b.numHashBits, &params); err != nil {
			return Parameters{}, err
		}
		return params, nil
	}
	if params.Family == CrossPolytope && params.LastCPDimension == 0 {
		dim := params.Dimension
		if traits, err := resolveTraits[P](); err == nil && traits.sparse() {
			dim = params.FeatureHashingDimension
		}
		if dim > 0 {
			params.LastCPDimension = lshfunc.NextPow2(dim)
		}
	}
	return params, nil
}

// Build creates the table over points.
func (b Builder[P]) Build(points []P) (*Table[P], error) {
	params, err := b.Parameters()
	if err != nil {
		return nil, err
	}
	t, err := NewTable(points, params, b.opts...)
	if err != nil {
		return nil, err
	}
	if b.numProbes != 0 {
		if err := t.SetNumProbes(b.numProbes); err != nil {
			return nil, err
		}
	}
	if b.maxNumCandidates != nil {
		t.SetMaxNumCandidates(*b.maxNumCandidates)
	}
	return t, nil
}

// MustBuild creates the table and panics on error.
func (b Builder[P]) MustBuild(points []P) *Table[P] {
	t, err := b.Build(points)
	if err != nil {
		panic(err)
	}
	return t
}
