// Package lsh provides locality-sensitive hashing tables for approximate
// nearest-neighbor search under cosine similarity.
//
// A Table indexes a fixed collection of dense or sparse points. Each of its
// L repetitions concatenates K hash functions from one of two families and
// stores every point in the bucket it hashes to. A query hashes the query
// point, reads the keys of its buckets (and, with multi-probe, of nearby
// buckets) and ranks those candidates by negative inner product.
//
// # Quick Start
//
//	params := lsh.Parameters{
//	    Dimension:        128,
//	    L:                10,
//	    DistanceFunction: lsh.NegativeInnerProduct,
//	    Family:           lsh.CrossPolytope,
//	    NumRotations:     1,
//	}
//	_ = lsh.ComputeNumberOfHashFunctions[lsh.DenseVector](18, &params)
//
//	table, _ := lsh.NewTable(points, params)
//	key, _ := table.FindClosest(query)
//
// Or with the fluent builder:
//
//	table, _ := lsh.CrossPolytopeTable[lsh.DenseVector](128).
//	    NumHashBits(18).
//	    L(10).
//	    Build(points)
//
// # Hash Families
//
//   - Hyperplane: one bit per random hyperplane.
//   - CrossPolytope: the closest signed axis after pseudo-random rotations
//     (a random sign flip followed by a Hadamard transform). Sparse points
//     are feature-hashed into a dense space first.
//
// # Tuning
//
// More probes (SetNumProbes, WithNumProbes) raise recall at the cost of
// query time; a candidate cap (SetMaxNumCandidates, WithMaxNumCandidates)
// bounds the work per query. QueryStatistics reports where the time goes.
//
// Points should be normalized to unit length so that negative inner
// product orders neighbors like cosine similarity.
package lsh
