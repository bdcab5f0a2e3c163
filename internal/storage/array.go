// Package storage provides read-only access to the points an LSH table was
// built from.
package storage

import "github.com/hupe1980/lsh/model"

// Array exposes a caller-supplied slice of points by position.
// The slice must not be mutated while the Array is in use.
type Array[P any] struct {
	points []P
}

// NewArray wraps points without copying.
func NewArray[P any](points []P) *Array[P] {
	return &Array[P]{points: points}
}

// Get returns the point stored under key.
func (a *Array[P]) Get(key model.Key) P {
	return a.points[key]
}

// Size returns the number of points.
func (a *Array[P]) Size() int {
	return len(a.points)
}

// Contains reports whether key addresses a stored point.
func (a *Array[P]) Contains(key model.Key) bool {
	return int(key) < len(a.points)
}
