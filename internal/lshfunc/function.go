package lshfunc

import (
	"errors"
	"fmt"
	"math/bits"
	"math/rand/v2"

	"github.com/hupe1980/lsh/model"
)

// SeedMask decorrelates hash-function randomness from other consumers of
// the same base seed.
const SeedMask uint64 = 93384688

// MaxHashBits is the widest bucket identifier a repetition can produce.
const MaxHashBits = 64

// ErrTooManyHashBits is returned when a repetition would need more than
// MaxHashBits bits to encode its bucket identifier.
var ErrTooManyHashBits = errors.New("bucket identifier exceeds 64 bits")

// Function is a multi-probe LSH function with L independent repetitions of
// K concatenated hash functions each.
//
// Implementations are safe for concurrent use.
type Function[P any] interface {
	// K returns the number of hash functions per repetition.
	K() int
	// L returns the number of repetitions.
	L() int
	// Hash writes the primary bucket of every repetition into dst.
	// len(dst) must be at least L.
	Hash(p P, dst []uint64)
	// ProbeSequence appends the first numProbes probes for p to dst.
	// The first min(numProbes, L) probes are the primary buckets in
	// repetition order.
	ProbeSequence(p P, numProbes int, dst []model.Probe) []model.Probe
}

// ErrInvalidArgument describes a rejected hash-function parameter.
type ErrInvalidArgument struct {
	Name   string
	Value  int
	Reason string
}

func (e *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("invalid %s %d: %s", e.Name, e.Value, e.Reason)
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NextPow2 returns the smallest power of two >= n (n >= 1).
func NextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Log2 returns floor(log2(n)) for n >= 1.
func Log2(n int) int {
	return bits.Len(uint(n)) - 1
}

// ComputeKForBits derives the number of cross-polytope functions and the
// dimension of the last one so that a repetition spans numberOfHashBits bits
// for vectors of the given dimension.
func ComputeKForBits(dimension, numberOfHashBits int) (k, lastCPDimension int) {
	rotationDim := NextPow2(dimension)
	bitsPerCP := Log2(rotationDim) + 1

	k = numberOfHashBits / bitsPerCP
	if rem := numberOfHashBits - k*bitsPerCP; rem > 0 {
		k++
		lastCPDimension = 1 << (rem - 1)
	} else {
		lastCPDimension = rotationDim
	}
	return k, lastCPDimension
}

func checkCommon(dim, k, l int) error {
	if dim < 1 {
		return &ErrInvalidArgument{Name: "dimension", Value: dim, Reason: "must be at least 1"}
	}
	if k < 1 {
		return &ErrInvalidArgument{Name: "k", Value: k, Reason: "must be at least 1"}
	}
	if l < 1 {
		return &ErrInvalidArgument{Name: "l", Value: l, Reason: "must be at least 1"}
	}
	return nil
}
