// Package distance provides the distance kernels used to rank LSH candidates.
//
// Dense kernels use SIMD-accelerated implementations from
// github.com/viterin/vek when the CPU supports them.
//
// # Supported Metrics
//
//   - MetricNegativeInnerProduct: -<a, b>. Equals cosine distance up to an
//     additive constant when both inputs are unit vectors.
//
// # Usage
//
//	d := distance.NegativeInnerProductDense(a, b)
//	s := distance.DotSparse(x, y)
//	distance.NormalizeDense(vec)
package distance
