package testutil

import (
	"cmp"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/lsh/distance"
	"github.com/hupe1980/lsh/model"
)

// SearchResult is a key with its distance to a query.
type SearchResult struct {
	Key      model.Key
	Distance float32
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// FillGaussian fills dst with values from a standard normal distribution.
func (r *RNG) FillGaussian(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = float32(r.rand.NormFloat64())
	}
}

// GaussianVectors generates random vectors with values from a standard normal distribution.
// Uses a single backing array for efficiency.
func (r *RNG) GaussianVectors(num int, dimensions int) []model.DenseVector {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([]model.DenseVector, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = float32(r.rand.NormFloat64())
		}
		vectors[i] = vec
	}

	return vectors
}

// UnitVectors generates L2-normalized random vectors (on the hypersphere).
// Uses Gaussian distribution for uniform distribution on the sphere.
func (r *RNG) UnitVectors(num int, dimensions int) []model.DenseVector {
	vectors := r.GaussianVectors(num, dimensions)
	for _, v := range vectors {
		distance.NormalizeDense(v)
	}
	return vectors
}

// UnitVector generates a single L2-normalized random vector.
func (r *RNG) UnitVector(dimensions int) model.DenseVector {
	vec := make(model.DenseVector, dimensions)
	r.FillGaussian(vec)
	distance.NormalizeDense(vec)
	return vec
}

// Perturb returns a unit vector close to v: v plus Gaussian noise scaled
// by noise, normalized.
func (r *RNG) Perturb(v model.DenseVector, noise float32) model.DenseVector {
	out := make(model.DenseVector, len(v))
	r.FillGaussian(out)
	for i := range out {
		out[i] = v[i] + out[i]*noise
	}
	distance.NormalizeDense(out)
	return out
}

// ClusteredVectors generates unit vectors clustered around random centroids.
// Useful for testing LSH recall on non-uniform data.
func (r *RNG) ClusteredVectors(num, dim, clusters int, spread float32) []model.DenseVector {
	centroids := r.UnitVectors(clusters, dim)

	vectors := make([]model.DenseVector, num)
	for i := range num {
		vectors[i] = r.Perturb(centroids[i%clusters], spread)
	}
	return vectors
}

// SparseUnitVectors generates L2-normalized sparse vectors with nnz
// distinct random indices in [0, dimensions) each, sorted by index.
func (r *RNG) SparseUnitVectors(num, dimensions, nnz int) []model.SparseVector {
	nnz = min(nnz, dimensions)
	vectors := make([]model.SparseVector, num)

	r.mu.Lock()
	for i := range num {
		seen := make(map[int32]struct{}, nnz)
		v := make(model.SparseVector, 0, nnz)
		for len(v) < nnz {
			idx := int32(r.rand.Intn(dimensions))
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			v = append(v, model.SparseEntry{Index: idx, Value: float32(r.rand.NormFloat64())})
		}
		slices.SortFunc(v, func(a, b model.SparseEntry) int { return cmp.Compare(a.Index, b.Index) })
		vectors[i] = v
	}
	r.mu.Unlock()

	for _, v := range vectors {
		distance.NormalizeSparse(v)
	}
	return vectors
}

// ExactTopK returns the k points closest to query by exhaustive scan,
// ordered by increasing distance. Ties are broken by key.
func ExactTopK[P any](query P, points []P, k int, dist distance.Func[P]) []SearchResult {
	results := make([]SearchResult, len(points))
	for i, p := range points {
		results[i] = SearchResult{Key: model.Key(i), Distance: dist(query, p)}
	}
	slices.SortFunc(results, func(a, b SearchResult) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return results[:min(k, len(results))]
}

// Keys returns the keys of results in order.
func Keys(results []SearchResult) []model.Key {
	keys := make([]model.Key, len(results))
	for i, r := range results {
		keys[i] = r.Key
	}
	return keys
}

// ComputeRecall computes recall@k by comparing approximate results against ground truth.
func ComputeRecall(groundTruth, approximate []model.Key) float64 {
	if len(groundTruth) == 0 || len(approximate) == 0 {
		if len(groundTruth) == 0 && len(approximate) == 0 {
			return 1.0
		}
		return 0.0
	}

	k := min(len(approximate), len(groundTruth))

	truthSet := make(map[model.Key]struct{}, k)
	for i := range k {
		truthSet[groundTruth[i]] = struct{}{}
	}

	hits := 0
	for _, key := range approximate[:k] {
		if _, ok := truthSet[key]; ok {
			hits++
		}
	}

	return float64(hits) / float64(k)
}
