package hashtable

import (
	"cmp"
	"iter"
	"math/bits"
	"slices"

	"github.com/hupe1980/lsh/model"
)

// LinearProbing is the default Backend.
type LinearProbing struct{}

// Name implements Backend.
func (LinearProbing) Name() string { return KindLinearProbing.String() }

// Build implements Backend.
func (LinearProbing) Build(hashes []uint64) (Table, error) {
	if err := checkKeyCount(len(hashes)); err != nil {
		return nil, err
	}

	keys := make([]model.Key, len(hashes))
	for i := range keys {
		keys[i] = model.Key(i)
	}
	slices.SortFunc(keys, func(a, b model.Key) int {
		if c := cmp.Compare(hashes[a], hashes[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	capacity := 1 << bits.Len(uint(max(2*len(hashes), 2)-1))
	t := &linearProbingTable{
		slots: make([]slot, capacity),
		mask:  uint64(capacity - 1),
		keys:  keys,
	}

	for start := 0; start < len(keys); {
		bucket := hashes[keys[start]]
		end := start + 1
		for end < len(keys) && hashes[keys[end]] == bucket {
			end++
		}
		t.insert(bucket, uint32(start), uint32(end-start))
		t.numBuckets++
		start = end
	}
	return t, nil
}

type slot struct {
	bucket uint64
	start  uint32
	count  uint32
}

// linearProbingTable stores distinct buckets in an open-addressing array.
// A slot with count 0 is empty; every stored bucket has at least one key.
type linearProbingTable struct {
	slots      []slot
	mask       uint64
	keys       []model.Key
	numBuckets int
}

// mix is the splitmix64 finalizer; bucket ids from hyperplane hashing are
// far from uniform in their low bits.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

func (t *linearProbingTable) insert(bucket uint64, start, count uint32) {
	for i := mix(bucket) & t.mask; ; i = (i + 1) & t.mask {
		if t.slots[i].count == 0 {
			t.slots[i] = slot{bucket: bucket, start: start, count: count}
			return
		}
	}
}

func (t *linearProbingTable) find(bucket uint64) []model.Key {
	for i := mix(bucket) & t.mask; ; i = (i + 1) & t.mask {
		s := t.slots[i]
		if s.count == 0 {
			return nil
		}
		if s.bucket == bucket {
			return t.keys[s.start : s.start+s.count]
		}
	}
}

// Lookup implements Table.
func (t *linearProbingTable) Lookup(bucket uint64) iter.Seq[model.Key] {
	keys := t.find(bucket)
	return slices.Values(keys)
}

// Len implements Table.
func (t *linearProbingTable) Len() int { return len(t.keys) }

// NumBuckets implements Table.
func (t *linearProbingTable) NumBuckets() int { return t.numBuckets }
