package lsh

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/hupe1980/lsh/internal/hashtable"
)

// HashTableBackend selects the data structure behind each repetition's
// hash table.
type HashTableBackend int

const (
	// LinearProbingBackend stores keys grouped by bucket in one flat array
	// indexed by an open-addressing table. This is the default.
	LinearProbingBackend HashTableBackend = iota
	// RoaringBackend stores one compressed bitmap per bucket.
	RoaringBackend
)

func (b HashTableBackend) String() string {
	return b.kind().String()
}

func (b HashTableBackend) kind() hashtable.Kind {
	if b == RoaringBackend {
		return hashtable.KindRoaring
	}
	return hashtable.KindLinearProbing
}

// ParseHashTableBackend parses the String form of a HashTableBackend.
func ParseHashTableBackend(s string) (HashTableBackend, error) {
	k, err := hashtable.ParseKind(s)
	if err != nil {
		return 0, fmt.Errorf("lsh: %w", err)
	}
	if k == hashtable.KindRoaring {
		return RoaringBackend, nil
	}
	return LinearProbingBackend, nil
}

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	buildWorkers     int
	backend          HashTableBackend
}

// Option configures table construction.
type Option func(*options)

// WithLogger configures structured logging for construction and queries.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := lsh.NewJSONLogger(slog.LevelInfo)
//	table, _ := lsh.NewTable(points, params, lsh.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &lsh.BasicMetricsCollector{}
//	table, _ := lsh.NewTable(points, params, lsh.WithMetricsCollector(metrics))
//	// ... use table ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithBuildWorkers sets the number of goroutines hashing points during
// construction. Values below 1 select runtime.GOMAXPROCS(0).
// The built table does not depend on this setting.
func WithBuildWorkers(n int) Option {
	return func(o *options) {
		o.buildWorkers = n
	}
}

// WithHashTableBackend selects the per-repetition hash table implementation.
func WithHashTableBackend(b HashTableBackend) Option {
	return func(o *options) {
		o.backend = b
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		backend:          LinearProbingBackend,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.buildWorkers < 1 {
		o.buildWorkers = runtime.GOMAXPROCS(0)
	}
	return o
}

// NoMaxNumCandidates disables the candidate cap.
const NoMaxNumCandidates = -1

type queryOptions struct {
	numProbes        int
	maxNumCandidates int
}

// QueryOption overrides a table's query knobs for a single call.
type QueryOption func(*queryOptions)

// WithNumProbes sets the number of buckets probed for one query.
// Values below 1 are rejected with a *UsageError.
func WithNumProbes(n int) QueryOption {
	return func(o *queryOptions) {
		o.numProbes = n
	}
}

// WithMaxNumCandidates caps the number of candidates, duplicates
// included, read for one query. A negative value means no cap.
func WithMaxNumCandidates(n int) QueryOption {
	return func(o *queryOptions) {
		o.maxNumCandidates = n
	}
}
