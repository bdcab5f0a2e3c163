package lshfunc

import (
	"cmp"
	"container/heap"
	"slices"

	"github.com/hupe1980/lsh/model"
)

// move is a single perturbation of one hash function of a repetition:
// hash function fn outputs value instead of its primary value.
type move struct {
	fn    int
	value uint64
	cost  float32
}

func sortMoves(moves []move) {
	slices.SortStableFunc(moves, func(a, b move) int {
		return cmp.Compare(a.cost, b.cost)
	})
}

// perturbation is a set of moves of one repetition, stored as increasing
// indices into that repetition's sorted move list.
type perturbation struct {
	table int
	set   []int
	cost  float32
}

type perturbationHeap []perturbation

func (h perturbationHeap) Len() int { return len(h) }
func (h perturbationHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return h[i].table < h[j].table
}
func (h perturbationHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *perturbationHeap) Push(x any)  { *h = append(*h, x.(perturbation)) }
func (h *perturbationHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// probeSource supplies the family-specific parts of multi-probing.
type probeSource interface {
	// primary returns the unperturbed bucket of repetition t.
	primary(t int) uint64
	// moves returns the candidate moves of repetition t sorted by cost.
	moves(t int) []move
	// apply returns the bucket of repetition t after applying the moves.
	apply(t int, applied []move) uint64
}

// generateProbes appends up to numProbes probes to dst using the
// shift/expand enumeration of perturbation sets, which yields sets of each
// repetition in non-decreasing cost order. Sets that move the same hash
// function twice are expanded but never emitted.
func generateProbes(src probeSource, l, numProbes int, dst []model.Probe) []model.Probe {
	primaries := min(numProbes, l)
	for t := 0; t < primaries; t++ {
		dst = append(dst, model.Probe{Table: t, Bucket: src.primary(t)})
	}
	if numProbes <= l {
		return dst
	}

	moves := make([][]move, l)
	h := make(perturbationHeap, 0, l)
	for t := 0; t < l; t++ {
		moves[t] = src.moves(t)
		if len(moves[t]) > 0 {
			h = append(h, perturbation{table: t, set: []int{0}, cost: moves[t][0].cost})
		}
	}
	heap.Init(&h)

	remaining := numProbes - l
	applied := make([]move, 0, 8)
	for remaining > 0 && h.Len() > 0 {
		p := heap.Pop(&h).(perturbation)
		ms := moves[p.table]

		applied = applied[:0]
		valid := true
		for _, idx := range p.set {
			m := ms[idx]
			for _, prev := range applied {
				if prev.fn == m.fn {
					valid = false
					break
				}
			}
			applied = append(applied, m)
		}
		if valid {
			dst = append(dst, model.Probe{Table: p.table, Bucket: src.apply(p.table, applied)})
			remaining--
		}

		last := p.set[len(p.set)-1]
		if last+1 < len(ms) {
			shifted := slices.Clone(p.set)
			shifted[len(shifted)-1] = last + 1
			heap.Push(&h, perturbation{
				table: p.table,
				set:   shifted,
				cost:  p.cost - ms[last].cost + ms[last+1].cost,
			})

			expanded := append(slices.Clone(p.set), last+1)
			heap.Push(&h, perturbation{
				table: p.table,
				set:   expanded,
				cost:  p.cost + ms[last+1].cost,
			})
		}
	}
	return dst
}
