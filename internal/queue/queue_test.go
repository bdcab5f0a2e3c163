package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lsh/model"
)

func TestMinQueue(t *testing.T) {
	pq := NewMin(4)
	for i, d := range []float32{3, 1, 4, 1, 5} {
		pq.PushItem(Item{Key: model.Key(i), Distance: d})
	}

	top, ok := pq.TopItem()
	require.True(t, ok)
	assert.Equal(t, Item{Key: 1, Distance: 1}, top)

	var got []model.Key
	for pq.Len() > 0 {
		item, _ := pq.PopItem()
		got = append(got, item.Key)
	}
	assert.Equal(t, []model.Key{1, 3, 0, 2, 4}, got)

	_, ok = pq.PopItem()
	assert.False(t, ok)
}

func TestPushItemBounded(t *testing.T) {
	pq := NewMax(3)
	for i, d := range []float32{9, 2, 7, 1, 8, 3} {
		pq.PushItemBounded(Item{Key: model.Key(i), Distance: d}, 3)
	}
	require.Equal(t, 3, pq.Len())
	assert.Equal(t, []model.Key{3, 1, 5}, pq.AppendSorted(nil))
	assert.Equal(t, 0, pq.Len())
}

func TestPushItemBoundedTies(t *testing.T) {
	pq := NewMax(2)
	for _, k := range []model.Key{7, 3, 5, 1} {
		pq.PushItemBounded(Item{Key: k, Distance: 1}, 2)
	}
	assert.Equal(t, []model.Key{1, 3}, pq.AppendSorted(nil))
}

func TestPushItemBoundedZeroCapacity(t *testing.T) {
	pq := NewMax(0)
	pq.PushItemBounded(Item{Key: 1}, 0)
	assert.Equal(t, 0, pq.Len())
}

func TestAppendSortedMin(t *testing.T) {
	pq := NewMin(3)
	pq.PushItem(Item{Key: 2, Distance: 0.5})
	pq.PushItem(Item{Key: 4, Distance: -1})
	pq.PushItem(Item{Key: 9, Distance: 0})

	got := pq.AppendSorted([]model.Key{100})
	assert.Equal(t, []model.Key{100, 4, 9, 2}, got)
}

func TestReset(t *testing.T) {
	pq := NewMin(2)
	pq.PushItem(Item{Key: 1, Distance: 1})
	pq.Reset()
	assert.Equal(t, 0, pq.Len())
	_, ok := pq.TopItem()
	assert.False(t, ok)
}
