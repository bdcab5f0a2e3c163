// Package lshfunc implements the locality-sensitive hash families used by
// the tables in package lsh.
//
// # Families
//
//   - Hyperplane: sign of k Gaussian projections per repetition
//   - CrossPolytope: closest signed standard basis vector after
//     pseudo-random rotations (random sign flips + fast Hadamard transform)
//
// Both families come in a dense and a sparse variant. Sparse cross-polytope
// inputs are feature-hashed into a fixed number of slots before rotation.
//
// # Multi-probe
//
// ProbeSequence returns the primary bucket of every repetition first,
// followed by perturbed buckets ordered by increasing perturbation cost
// across all repetitions.
package lshfunc
