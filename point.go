package lsh

import "github.com/hupe1980/lsh/model"

// Point is the set of point representations a Table can index.
type Point interface {
	model.DenseVector | model.SparseVector
}

// Key identifies a point by its position in the slice the table was built from.
type Key = model.Key

type (
	// DenseVector is a point with one value per dimension.
	DenseVector = model.DenseVector
	// SparseVector is a point given by its non-zero entries.
	SparseVector = model.SparseVector
	// SparseEntry is one non-zero coordinate of a SparseVector.
	SparseEntry = model.SparseEntry
)
