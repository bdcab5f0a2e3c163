package lshfunc

import (
	"sync"

	"github.com/hupe1980/lsh/internal/mem"
	"github.com/hupe1980/lsh/model"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// Hyperplane hashes a point to the signs of its projections onto K·L random
// Gaussian directions. Bit j of repetition t is set iff the projection onto
// hyperplane t·K+j is positive.
type Hyperplane[P any] struct {
	dim     int
	k       int
	l       int
	planes  blas32.General
	project func(planes blas32.General, p P, out []float32)
	scratch sync.Pool
}

// NewHyperplaneDense creates a hyperplane hash for dense vectors.
func NewHyperplaneDense(dim, k, l int, seed uint64) (*Hyperplane[model.DenseVector], error) {
	return newHyperplane(dim, k, l, seed, projectDense)
}

// NewHyperplaneSparse creates a hyperplane hash for sparse vectors whose
// indices lie in [0, dim).
func NewHyperplaneSparse(dim, k, l int, seed uint64) (*Hyperplane[model.SparseVector], error) {
	return newHyperplane(dim, k, l, seed, projectSparse)
}

func newHyperplane[P any](dim, k, l int, seed uint64, project func(blas32.General, P, []float32)) (*Hyperplane[P], error) {
	if err := checkCommon(dim, k, l); err != nil {
		return nil, err
	}
	if k > MaxHashBits {
		return nil, &ErrInvalidArgument{Name: "k", Value: k, Reason: ErrTooManyHashBits.Error()}
	}

	rows := k * l
	rng := newRand(seed)
	data := mem.AlignedFloat32(rows * dim)
	for i := range data {
		data[i] = float32(rng.NormFloat64())
	}

	h := &Hyperplane[P]{
		dim:     dim,
		k:       k,
		l:       l,
		planes:  blas32.General{Rows: rows, Cols: dim, Stride: dim, Data: data},
		project: project,
	}
	h.scratch.New = func() any {
		buf := make([]float32, rows)
		return &buf
	}
	return h, nil
}

func projectDense(planes blas32.General, p model.DenseVector, out []float32) {
	x := blas32.Vector{N: len(p), Inc: 1, Data: p}
	y := blas32.Vector{N: len(out), Inc: 1, Data: out}
	blas32.Gemv(blas.NoTrans, 1, planes, x, 0, y)
}

func projectSparse(planes blas32.General, p model.SparseVector, out []float32) {
	clear(out)
	y := blas32.Vector{N: len(out), Inc: 1, Data: out}
	for _, e := range p {
		// Column e.Index of the row-major plane matrix.
		col := blas32.Vector{N: planes.Rows, Inc: planes.Stride, Data: planes.Data[e.Index:]}
		blas32.Axpy(e.Value, col, y)
	}
}

// K returns the number of hyperplanes per repetition.
func (h *Hyperplane[P]) K() int { return h.k }

// L returns the number of repetitions.
func (h *Hyperplane[P]) L() int { return h.l }

// Dimension returns the input dimension.
func (h *Hyperplane[P]) Dimension() int { return h.dim }

// Hash implements Function.
func (h *Hyperplane[P]) Hash(p P, dst []uint64) {
	buf := h.scratch.Get().(*[]float32)
	defer h.scratch.Put(buf)

	proj := *buf
	h.project(h.planes, p, proj)
	for t := 0; t < h.l; t++ {
		dst[t] = signBits(proj[t*h.k : (t+1)*h.k])
	}
}

// ProbeSequence implements Function. Flipping bit j of a repetition costs
// the squared projection onto hyperplane j.
func (h *Hyperplane[P]) ProbeSequence(p P, numProbes int, dst []model.Probe) []model.Probe {
	buf := h.scratch.Get().(*[]float32)
	defer h.scratch.Put(buf)

	proj := *buf
	h.project(h.planes, p, proj)
	return generateProbes(&hyperplaneProbes{k: h.k, proj: proj}, h.l, numProbes, dst)
}

func signBits(proj []float32) uint64 {
	var bucket uint64
	for j, v := range proj {
		if v > 0 {
			bucket |= 1 << uint(j)
		}
	}
	return bucket
}

type hyperplaneProbes struct {
	k    int
	proj []float32
}

func (hp *hyperplaneProbes) primary(t int) uint64 {
	return signBits(hp.proj[t*hp.k : (t+1)*hp.k])
}

func (hp *hyperplaneProbes) moves(t int) []move {
	ms := make([]move, hp.k)
	for j, v := range hp.proj[t*hp.k : (t+1)*hp.k] {
		ms[j] = move{fn: j, value: 1 << uint(j), cost: v * v}
	}
	sortMoves(ms)
	return ms
}

func (hp *hyperplaneProbes) apply(t int, applied []move) uint64 {
	bucket := hp.primary(t)
	for _, m := range applied {
		bucket ^= m.value
	}
	return bucket
}
