// Package mem allocates float buffers aligned for SIMD kernels.
//
// Hash functions keep their projection matrices and rotation scratch in
// slices returned by AlignedFloat32, so rows start on a cache line.
package mem
