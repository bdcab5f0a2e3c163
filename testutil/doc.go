// Package testutil provides testing utilities for lsh.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random points, computing exact
// nearest neighbors, and verifying recall.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	points := rng.UnitVectors(1000, 128)        // dense, on the unit sphere
//	sparse := rng.SparseUnitVectors(1000, 1<<20, 32)
//
// # Exact Search (Ground Truth)
//
//	truth := testutil.ExactTopK(query, points, k, distance.NegativeInnerProductDense)
//
// # Recall Verification
//
//	recall := testutil.ComputeRecall(truth, approx)
package testutil
