package lshfunc

import (
	"math/bits"
	"sync"

	"github.com/hupe1980/lsh/internal/mem"
	"github.com/hupe1980/lsh/model"
)

// CrossPolytope hashes a point to the closest signed standard basis vector
// after NumRotations pseudo-random rotations. A rotation is a random ±1
// diagonal followed by a fast Hadamard transform over the point zero-padded
// to the next power of two. The last hash function of every repetition only
// looks at the first LastCPDimension rotated coordinates.
type CrossPolytope[P any] struct {
	k            int
	l            int
	rotDim       int
	lastCPDim    int
	numRotations int
	bitsPerCP    uint
	lastBits     uint
	signs        []float32
	embed        func(p P, dst []float32)
	scratch      sync.Pool
}

type cpScratch struct {
	rotated []float32
	values  []uint64
	best    []float32
}

// NewCrossPolytopeDense creates a cross-polytope hash for dense vectors.
func NewCrossPolytopeDense(dim, k, l, numRotations, lastCPDim int, seed uint64) (*CrossPolytope[model.DenseVector], error) {
	if err := checkCommon(dim, k, l); err != nil {
		return nil, err
	}
	embed := func(p model.DenseVector, dst []float32) {
		n := copy(dst, p)
		clear(dst[n:])
	}
	return newCrossPolytope(dim, k, l, numRotations, lastCPDim, seed, func(uint64) func(model.DenseVector, []float32) {
		return embed
	})
}

// NewCrossPolytopeSparse creates a cross-polytope hash for sparse vectors.
// Points are feature-hashed into featureHashingDim slots before rotation.
func NewCrossPolytopeSparse(dim, k, l, numRotations, featureHashingDim, lastCPDim int, seed uint64) (*CrossPolytope[model.SparseVector], error) {
	if err := checkCommon(dim, k, l); err != nil {
		return nil, err
	}
	if featureHashingDim < 1 {
		return nil, &ErrInvalidArgument{Name: "feature_hashing_dimension", Value: featureHashingDim, Reason: "must be at least 1"}
	}
	return newCrossPolytope(featureHashingDim, k, l, numRotations, lastCPDim, seed, func(fhSeed uint64) func(model.SparseVector, []float32) {
		fh := featureHasher{seed: fhSeed, slots: featureHashingDim}
		return func(p model.SparseVector, dst []float32) {
			clear(dst)
			fh.embed(p, dst)
		}
	})
}

func newCrossPolytope[P any](dim, k, l, numRotations, lastCPDim int, seed uint64, embedder func(uint64) func(P, []float32)) (*CrossPolytope[P], error) {
	if numRotations < 0 {
		return nil, &ErrInvalidArgument{Name: "num_rotations", Value: numRotations, Reason: "must be non-negative"}
	}
	rotDim := NextPow2(dim)
	if lastCPDim < 1 || lastCPDim > rotDim {
		return nil, &ErrInvalidArgument{Name: "last_cp_dimension", Value: lastCPDim, Reason: "must be in [1, rotation dimension]"}
	}

	bitsPerCP := uint(Log2(rotDim) + 1)
	lastBits := uint(bits.Len(uint(2*lastCPDim - 1)))
	if uint(k-1)*bitsPerCP+lastBits > MaxHashBits {
		return nil, &ErrInvalidArgument{Name: "k", Value: k, Reason: ErrTooManyHashBits.Error()}
	}

	rng := newRand(seed)
	signs := mem.AlignedFloat32(k * l * numRotations * rotDim)
	for i := range signs {
		if rng.Uint64()&1 == 0 {
			signs[i] = 1
		} else {
			signs[i] = -1
		}
	}

	cp := &CrossPolytope[P]{
		k:            k,
		l:            l,
		rotDim:       rotDim,
		lastCPDim:    lastCPDim,
		numRotations: numRotations,
		bitsPerCP:    bitsPerCP,
		lastBits:     lastBits,
		signs:        signs,
		embed:        embedder(rng.Uint64()),
	}
	cp.scratch.New = func() any {
		return &cpScratch{
			rotated: mem.AlignedFloat32((k*l + 1) * rotDim),
			values:  make([]uint64, k*l),
			best:    make([]float32, k*l),
		}
	}
	return cp, nil
}

// K returns the number of cross-polytope functions per repetition.
func (cp *CrossPolytope[P]) K() int { return cp.k }

// L returns the number of repetitions.
func (cp *CrossPolytope[P]) L() int { return cp.l }

// RotationDimension returns the padded dimension the rotations act on.
func (cp *CrossPolytope[P]) RotationDimension() int { return cp.rotDim }

// LastCPDimension returns the dimension of the last function per repetition.
func (cp *CrossPolytope[P]) LastCPDimension() int { return cp.lastCPDim }

// Hash implements Function.
func (cp *CrossPolytope[P]) Hash(p P, dst []uint64) {
	s := cp.scratch.Get().(*cpScratch)
	defer cp.scratch.Put(s)

	cp.evaluate(p, s)
	for t := 0; t < cp.l; t++ {
		dst[t] = cp.combine(s.values[t*cp.k : (t+1)*cp.k])
	}
}

// ProbeSequence implements Function. Replacing the output of a function by
// another signed axis costs the drop in its signed coordinate.
func (cp *CrossPolytope[P]) ProbeSequence(p P, numProbes int, dst []model.Probe) []model.Probe {
	s := cp.scratch.Get().(*cpScratch)
	defer cp.scratch.Put(s)

	cp.evaluate(p, s)
	return generateProbes(&crossPolytopeProbes[P]{cp: cp, s: s}, cp.l, numProbes, dst)
}

func (cp *CrossPolytope[P]) cpDim(f int) int {
	if f == cp.k-1 {
		return cp.lastCPDim
	}
	return cp.rotDim
}

// evaluate rotates the embedded point once per hash function and records
// the winning signed axis of every function.
func (cp *CrossPolytope[P]) evaluate(p P, s *cpScratch) {
	base := s.rotated[cp.k*cp.l*cp.rotDim:]
	cp.embed(p, base)

	for i := 0; i < cp.k*cp.l; i++ {
		x := s.rotated[i*cp.rotDim : (i+1)*cp.rotDim]
		copy(x, base)
		for r := 0; r < cp.numRotations; r++ {
			off := (i*cp.numRotations + r) * cp.rotDim
			diag := cp.signs[off : off+cp.rotDim]
			for j := range x {
				x[j] *= diag[j]
			}
			fht(x)
		}
		s.values[i], s.best[i] = closestAxis(x[:cp.cpDim(i%cp.k)])
	}
}

// closestAxis returns the signed axis maximizing <x, ±e_i> encoded as i for
// +e_i and i+len(x) for -e_i, along with the winning coordinate magnitude.
func closestAxis(x []float32) (uint64, float32) {
	bestIdx := 0
	bestAbs := float32(-1)
	for i, v := range x {
		a := v
		if a < 0 {
			a = -a
		}
		if a > bestAbs {
			bestAbs = a
			bestIdx = i
		}
	}
	if x[bestIdx] < 0 {
		return uint64(bestIdx + len(x)), bestAbs
	}
	return uint64(bestIdx), bestAbs
}

func (cp *CrossPolytope[P]) combine(values []uint64) uint64 {
	var bucket uint64
	for f, v := range values {
		width := cp.bitsPerCP
		if f == cp.k-1 {
			width = cp.lastBits
		}
		bucket = bucket<<width | v
	}
	return bucket
}

type crossPolytopeProbes[P any] struct {
	cp *CrossPolytope[P]
	s  *cpScratch
}

func (c *crossPolytopeProbes[P]) primary(t int) uint64 {
	return c.cp.combine(c.s.values[t*c.cp.k : (t+1)*c.cp.k])
}

func (c *crossPolytopeProbes[P]) moves(t int) []move {
	cp := c.cp
	var ms []move
	for f := 0; f < cp.k; f++ {
		i := t*cp.k + f
		dim := cp.cpDim(f)
		x := c.s.rotated[i*cp.rotDim : i*cp.rotDim+dim]
		best := c.s.best[i]
		primary := c.s.values[i]
		for j, v := range x {
			if uint64(j) != primary {
				ms = append(ms, move{fn: f, value: uint64(j), cost: best - v})
			}
			if uint64(j+dim) != primary {
				ms = append(ms, move{fn: f, value: uint64(j + dim), cost: best + v})
			}
		}
	}
	sortMoves(ms)
	return ms
}

func (c *crossPolytopeProbes[P]) apply(t int, applied []move) uint64 {
	cp := c.cp
	values := make([]uint64, cp.k)
	copy(values, c.s.values[t*cp.k:(t+1)*cp.k])
	for _, m := range applied {
		values[m.fn] = m.value
	}
	return cp.combine(values)
}
