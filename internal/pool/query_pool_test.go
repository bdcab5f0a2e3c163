package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/lsh/internal/queue"
	"github.com/hupe1980/lsh/model"
)

func TestQueryContext_MarkVisited(t *testing.T) {
	ctx := Get()
	defer Put(ctx)

	assert.False(t, ctx.IsVisited(0))
	assert.False(t, ctx.MarkVisited(0))
	assert.True(t, ctx.IsVisited(0))
	assert.True(t, ctx.MarkVisited(0))
	assert.Equal(t, 1, ctx.NumVisited())
}

func TestQueryContext_Growth(t *testing.T) {
	ctx := Get()
	defer Put(ctx)

	large := model.Key(DefaultMaxKeys * 3)
	assert.False(t, ctx.MarkVisited(large))
	assert.True(t, ctx.IsVisited(large))
	assert.False(t, ctx.IsVisited(large-1))
}

func TestQueryContext_Reset(t *testing.T) {
	ctx := Get()
	defer Put(ctx)

	for _, k := range []model.Key{0, 100, 1000} {
		ctx.MarkVisited(k)
	}
	ctx.Probes = append(ctx.Probes, model.Probe{Table: 1, Bucket: 2})
	ctx.Candidates = append(ctx.Candidates, 7)
	ctx.Result.PushItem(queue.Item{Key: 1, Distance: 1})

	ctx.Reset()

	for _, k := range []model.Key{0, 100, 1000} {
		assert.False(t, ctx.IsVisited(k))
	}
	assert.Equal(t, 0, ctx.NumVisited())
	assert.Empty(t, ctx.Probes)
	assert.Empty(t, ctx.Candidates)
	assert.Equal(t, 0, ctx.Result.Len())
}

func TestQueryContext_ResetClearAll(t *testing.T) {
	ctx := Get()
	defer Put(ctx)

	n := int(ctx.Visited.Len())/clearAllRatio + 10
	for i := 0; i < n; i++ {
		ctx.MarkVisited(model.Key(i))
	}
	ctx.Reset()
	assert.Equal(t, uint(0), ctx.Visited.Count())
}

func TestQueryContext_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				ctx := Get()
				key := model.Key(g*1000 + i)
				assert.False(t, ctx.MarkVisited(key))
				Put(ctx)
			}
		}(g)
	}
	wg.Wait()
}
