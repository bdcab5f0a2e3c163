package lshfunc

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/hupe1980/lsh/model"
)

// featureHasher maps sparse coordinates into a fixed number of dense slots
// with a pseudo-random sign, preserving inner products in expectation.
type featureHasher struct {
	seed  uint64
	slots int
}

func (f featureHasher) slot(index int32) (int, float32) {
	var buf [12]byte
	binary.LittleEndian.PutUint64(buf[:8], f.seed)
	binary.LittleEndian.PutUint32(buf[8:], uint32(index))
	h := xxhash.Sum64(buf[:])

	sign := float32(1)
	if h>>63 == 1 {
		sign = -1
	}
	return int((h & (1<<63 - 1)) % uint64(f.slots)), sign
}

// embed accumulates p into dst, which must be zeroed and hold at least
// f.slots entries.
func (f featureHasher) embed(p model.SparseVector, dst []float32) {
	for _, e := range p {
		i, sign := f.slot(e.Index)
		dst[i] += sign * e.Value
	}
}
