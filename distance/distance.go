package distance

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/lsh/model"
	"github.com/viterin/vek/vek32"
)

// Dot calculates the dot product of two dense vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	if len(a) == 0 {
		return 0
	}
	return vek32.Dot(a, b)
}

// NegativeInnerProductDense returns -<a, b>.
func NegativeInnerProductDense(a, b model.DenseVector) float32 {
	return -Dot(a, b)
}

// DotSparse calculates the dot product of two sparse vectors.
// Inputs sorted by index are merged in linear time; otherwise the shorter
// vector is scattered into a map.
func DotSparse(a, b model.SparseVector) float32 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if isSorted(a) && isSorted(b) {
		return dotMerge(a, b)
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	lookup := make(map[int32]float32, len(a))
	for _, e := range a {
		lookup[e.Index] = e.Value
	}
	var sum float32
	for _, e := range b {
		if v, ok := lookup[e.Index]; ok {
			sum += v * e.Value
		}
	}
	return sum
}

// NegativeInnerProductSparse returns -<a, b>.
func NegativeInnerProductSparse(a, b model.SparseVector) float32 {
	return -DotSparse(a, b)
}

func isSorted(v model.SparseVector) bool {
	return slices.IsSortedFunc(v, func(x, y model.SparseEntry) int {
		return cmp.Compare(x.Index, y.Index)
	})
}

func dotMerge(a, b model.SparseVector) float32 {
	var sum float32
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Index == b[j].Index:
			sum += a[i].Value * b[j].Value
			i++
			j++
		case a[i].Index < b[j].Index:
			i++
		default:
			j++
		}
	}
	return sum
}

// NormalizeDense L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeDense(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	norm2 := vek32.Dot(v, v)
	if norm2 == 0 {
		return false
	}
	vek32.MulNumber_Inplace(v, float32(1/math.Sqrt(float64(norm2))))
	return true
}

// NormalizeSparse L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeSparse(v model.SparseVector) bool {
	var norm2 float64
	for _, e := range v {
		norm2 += float64(e.Value) * float64(e.Value)
	}
	if norm2 == 0 {
		return false
	}
	inv := float32(1 / math.Sqrt(norm2))
	for i := range v {
		v[i].Value *= inv
	}
	return true
}

// Metric represents the distance function used for ranking.
type Metric int

const (
	MetricUnknown Metric = iota
	MetricNegativeInnerProduct
)

func (m Metric) String() string {
	switch m {
	case MetricUnknown:
		return "Unknown"
	case MetricNegativeInnerProduct:
		return "NegativeInnerProduct"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a distance function over points of type P.
type Func[P any] func(a, b P) float32

// DenseProvider returns the dense distance function for the given metric.
func DenseProvider(m Metric) (Func[model.DenseVector], error) {
	switch m {
	case MetricNegativeInnerProduct:
		return NegativeInnerProductDense, nil
	default:
		return nil, fmt.Errorf("unsupported metric for dense vectors: %v", m)
	}
}

// SparseProvider returns the sparse distance function for the given metric.
func SparseProvider(m Metric) (Func[model.SparseVector], error) {
	switch m {
	case MetricNegativeInnerProduct:
		return NegativeInnerProductSparse, nil
	default:
		return nil, fmt.Errorf("unsupported metric for sparse vectors: %v", m)
	}
}
