package model

import (
	"fmt"
)

// Key identifies a point in the collection a table was built from.
// In the default storage adapter it is the position in the input slice.
type Key uint32

// MaxKey is the largest representable Key.
const MaxKey = ^Key(0)

// DenseVector is a point whose coordinates are stored contiguously.
type DenseVector []float32

// Dimension returns the number of coordinates.
func (v DenseVector) Dimension() int { return len(v) }

// SparseEntry is a single non-zero coordinate of a SparseVector.
type SparseEntry struct {
	Index int32
	Value float32
}

// String returns a string representation of the entry.
func (e SparseEntry) String() string {
	return fmt.Sprintf("%d:%g", e.Index, e.Value)
}

// SparseVector is a point stored as its non-zero coordinates.
// Indices are unique; their order is not significant.
type SparseVector []SparseEntry

// NewSparseVector builds a SparseVector from parallel index and value slices.
// It panics if the slices differ in length.
func NewSparseVector(indices []int32, values []float32) SparseVector {
	if len(indices) != len(values) {
		panic(fmt.Sprintf("model: %d indices but %d values", len(indices), len(values)))
	}
	v := make(SparseVector, len(indices))
	for i := range indices {
		v[i] = SparseEntry{Index: indices[i], Value: values[i]}
	}
	return v
}

// NNZ returns the number of stored entries.
func (v SparseVector) NNZ() int { return len(v) }

// Probe addresses one bucket of one repetition.
type Probe struct {
	Table  int
	Bucket uint64
}

// String returns a string representation of the Probe.
func (p Probe) String() string {
	return fmt.Sprintf("Probe(%d:%#x)", p.Table, p.Bucket)
}
