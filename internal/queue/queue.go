// Package queue implements the binary heaps used to select nearest
// neighbors among LSH candidates.
package queue

import "github.com/hupe1980/lsh/model"

// Item is a candidate key with its distance to the query.
type Item struct {
	Key      model.Key
	Distance float32
}

// PriorityQueue is a value-based binary heap of Items.
// Ties on Distance are broken by Key so results are deterministic.
type PriorityQueue struct {
	isMaxHeap bool
	items     []Item
}

// NewMin initializes a new priority queue with minimum priority.
func NewMin(capacity int) *PriorityQueue {
	return &PriorityQueue{
		isMaxHeap: false,
		items:     make([]Item, 0, capacity),
	}
}

// NewMax initializes a new priority queue with maximum priority.
func NewMax(capacity int) *PriorityQueue {
	return &PriorityQueue{
		isMaxHeap: true,
		items:     make([]Item, 0, capacity),
	}
}

// Len returns the number of elements in the priority queue.
func (pq *PriorityQueue) Len() int { return len(pq.items) }

// Reset clears the priority queue for reuse.
func (pq *PriorityQueue) Reset() {
	pq.items = pq.items[:0]
}

// TopItem returns the top element of the heap.
func (pq *PriorityQueue) TopItem() (Item, bool) {
	if len(pq.items) == 0 {
		return Item{}, false
	}
	return pq.items[0], true
}

// PushItem inserts an item while maintaining the heap invariant.
func (pq *PriorityQueue) PushItem(item Item) {
	pq.items = append(pq.items, item)
	pq.siftUp(len(pq.items) - 1)
}

// PushItemBounded inserts item into a heap holding at most capacity items.
// On a full max-heap the item replaces the top if it is closer; on a full
// min-heap it replaces the top if it is farther.
func (pq *PriorityQueue) PushItemBounded(item Item, capacity int) {
	if len(pq.items) < capacity {
		pq.PushItem(item)
		return
	}
	if capacity == 0 {
		return
	}
	if pq.before(item, pq.items[0]) {
		pq.items[0] = item
		pq.siftDown(0)
	}
}

// PopItem removes and returns the top element while maintaining the heap invariant.
func (pq *PriorityQueue) PopItem() (Item, bool) {
	n := len(pq.items)
	if n == 0 {
		return Item{}, false
	}
	root := pq.items[0]
	last := pq.items[n-1]
	pq.items = pq.items[:n-1]
	if n-1 > 0 {
		pq.items[0] = last
		pq.siftDown(0)
	}
	return root, true
}

// AppendSorted drains the queue and appends its keys to dst ordered by
// increasing distance.
func (pq *PriorityQueue) AppendSorted(dst []model.Key) []model.Key {
	n := pq.Len()
	start := len(dst)
	dst = append(dst, make([]model.Key, n)...)
	for i := 0; i < n; i++ {
		item, _ := pq.PopItem()
		if pq.isMaxHeap {
			dst[start+n-1-i] = item.Key
		} else {
			dst[start+i] = item.Key
		}
	}
	return dst
}

// before reports whether a is strictly worse than b for a bounded
// max-heap, or strictly better for a min-heap; i.e. whether a should
// displace the top b.
func (pq *PriorityQueue) before(a, b Item) bool {
	if pq.isMaxHeap {
		return closer(a, b)
	}
	return closer(b, a)
}

func closer(a, b Item) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Key < b.Key
}

func (pq *PriorityQueue) less(i, j int) bool {
	if pq.isMaxHeap {
		return closer(pq.items[j], pq.items[i])
	}
	return closer(pq.items[i], pq.items[j])
}

func (pq *PriorityQueue) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !pq.less(i, p) {
			return
		}
		pq.items[i], pq.items[p] = pq.items[p], pq.items[i]
		i = p
	}
}

func (pq *PriorityQueue) siftDown(i int) {
	n := len(pq.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		r := l + 1
		if r < n && pq.less(r, l) {
			best = r
		}
		if !pq.less(best, i) {
			return
		}
		pq.items[i], pq.items[best] = pq.items[best], pq.items[i]
		i = best
	}
}
