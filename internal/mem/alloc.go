package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of the first element of every slice
// returned by this package.
const Alignment = 64

// AlignedBytes returns a zeroed byte slice of length n starting on an
// Alignment boundary. It over-allocates by at most Alignment bytes.
func AlignedBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	buf := make([]byte, n+Alignment)
	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // alignment needs the address
	off := (Alignment - addr%Alignment) % Alignment
	return buf[off : off+uintptr(n) : off+uintptr(n)]
}

// AlignedFloat32 returns a zeroed float32 slice of length n starting on an
// Alignment boundary.
func AlignedFloat32(n int) []float32 {
	if n <= 0 {
		return nil
	}
	b := AlignedBytes(n * 4)
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), n) //nolint:gosec // b is 4-byte aligned
}

// IsAligned reports whether the first element of s sits on an Alignment
// boundary. Empty slices are aligned.
func IsAligned[T any](s []T) bool {
	if len(s) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&s[0]))%Alignment == 0 //nolint:gosec // alignment needs the address
}
