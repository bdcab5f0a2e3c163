package hashtable

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/lsh/model"
)

// Roaring stores every bucket as a compressed bitmap of keys. It trades
// lookup speed for memory on large collections with heavy buckets.
type Roaring struct{}

// Name implements Backend.
func (Roaring) Name() string { return KindRoaring.String() }

// Build implements Backend.
func (Roaring) Build(hashes []uint64) (Table, error) {
	if err := checkKeyCount(len(hashes)); err != nil {
		return nil, err
	}

	buckets := make(map[uint64]*roaring.Bitmap)
	for i, h := range hashes {
		rb, ok := buckets[h]
		if !ok {
			rb = roaring.New()
			buckets[h] = rb
		}
		rb.Add(uint32(i))
	}
	for _, rb := range buckets {
		rb.RunOptimize()
	}
	return &roaringTable{buckets: buckets, size: len(hashes)}, nil
}

type roaringTable struct {
	buckets map[uint64]*roaring.Bitmap
	size    int
}

// Lookup implements Table.
func (t *roaringTable) Lookup(bucket uint64) iter.Seq[model.Key] {
	return func(yield func(model.Key) bool) {
		rb, ok := t.buckets[bucket]
		if !ok {
			return
		}
		it := rb.Iterator()
		for it.HasNext() {
			if !yield(model.Key(it.Next())) {
				return
			}
		}
	}
}

// Len implements Table.
func (t *roaringTable) Len() int { return t.size }

// NumBuckets implements Table.
func (t *roaringTable) NumBuckets() int { return len(t.buckets) }
