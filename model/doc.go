// Package model defines core types used throughout lsh.
//
// # Identity Types
//
//   - Key: Position of a point in the collection a table was built from (uint32)
//   - Probe: One (repetition, bucket) pair of a multi-probe sequence
//
// # Point Types
//
//   - DenseVector: Ordered float32 coordinates, length equal to the dimension
//   - SparseVector: (index, value) pairs with unique indices in any order
//
// Use NewSparseVector to build a sparse point from parallel slices:
//
//	p := model.NewSparseVector([]int32{3, 17, 42}, []float32{0.5, 0.5, 0.7})
package model
