package dataset

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/lsh/distance"
	"github.com/hupe1980/lsh/internal/conv"
	"github.com/hupe1980/lsh/internal/queue"
	"github.com/hupe1980/lsh/model"
)

// ExactNeighbors computes the k nearest base points of every query by linear
// scan. Queries are split across workers goroutines (GOMAXPROCS if < 1).
// Each row is sorted by ascending distance, ties by smaller key.
func ExactNeighbors[P any](ctx context.Context, queries, base []P, k int, dist distance.Func[P], workers int) ([][]model.Key, error) {
	if k < 1 {
		return nil, fmt.Errorf("dataset: k must be positive, got %d", k)
	}
	if len(base) > 0 {
		if _, err := conv.IntToKey(len(base) - 1); err != nil {
			return nil, fmt.Errorf("dataset: base set too large: %w", err)
		}
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([][]model.Key, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for qi := range queries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pq := queue.NewMax(k)
			for i, p := range base {
				pq.PushItemBounded(queue.Item{Key: model.Key(i), Distance: dist(queries[qi], p)}, k)
			}
			out[qi] = pq.AppendSorted(make([]model.Key, 0, pq.Len()))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Keys converts ground-truth rows read from an .ivecs file, keeping at most
// k ids per row (all if k < 1). Negative ids are skipped.
func Keys(rows [][]int32, k int) [][]model.Key {
	out := make([][]model.Key, len(rows))
	for i, row := range rows {
		if k > 0 && len(row) > k {
			row = row[:k]
		}
		keys := make([]model.Key, 0, len(row))
		for _, id := range row {
			if key, err := conv.Int32ToKey(id); err == nil {
				keys = append(keys, key)
			}
		}
		out[i] = keys
	}
	return out
}

// Recall returns the fraction of ground-truth neighbors found, averaged over
// queries. Rows with an empty ground truth are skipped.
func Recall(groundTruth, approximate [][]model.Key) float64 {
	var (
		sum float64
		n   int
	)
	for i, gt := range groundTruth {
		if len(gt) == 0 {
			continue
		}
		var found []model.Key
		if i < len(approximate) {
			found = approximate[i]
		}
		want := make(map[model.Key]struct{}, len(gt))
		for _, key := range gt {
			want[key] = struct{}{}
		}
		hits := 0
		for _, key := range found {
			if _, ok := want[key]; ok {
				hits++
				delete(want, key)
			}
		}
		sum += float64(hits) / float64(len(gt))
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
