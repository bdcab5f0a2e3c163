package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hupe1980/lsh"
	"github.com/hupe1980/lsh/dataset"
	"github.com/hupe1980/lsh/internal/resource"
)

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

// cliFlags holds flags that override the configuration file.
type cliFlags struct {
	configPath string
	progress   bool

	storeType string
	storePath string

	base        string
	queries     string
	groundTruth string
	limit       int
	queryLimit  int
	normalize   bool

	family       string
	l            int
	k            int
	bits         int
	backend      string
	seed         uint64
	buildWorkers int

	topK        int
	probes      int
	maxCands    int
	concurrency int
	qps         float64

	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	f := &cliFlags{}

	root := &cobra.Command{
		Use:   "lshbench",
		Short: "Benchmark LSH nearest-neighbor tables",
		Long: `lshbench loads an ANN benchmark dataset (.fvecs, .ivecs, .svm, optionally
.zst or .lz4 compressed) from a local directory, S3 or MinIO, builds an LSH
table over it and measures query throughput and recall.

Examples:
  lshbench params --n 1000000 --dim 128
  lshbench build --store-path ./data --base sift/sift_base.fvecs
  lshbench query --config bench.yaml --probes 40 --qps 2000`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	pf.BoolVar(&f.progress, "progress", true, "show progress bars on stderr")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&f.logFormat, "log-format", "", "log format (text, json)")

	root.AddCommand(newBuildCmd(f), newQueryCmd(f), newParamsCmd())
	return root
}

func addDatasetFlags(fs *pflag.FlagSet, f *cliFlags) {
	fs.StringVar(&f.storeType, "store", "", "blob store type (local, s3, minio)")
	fs.StringVar(&f.storePath, "store-path", "", "root directory of the local store")
	fs.StringVar(&f.base, "base", "", "base point file")
	fs.IntVar(&f.limit, "limit", 0, "read at most this many base points")
	fs.BoolVar(&f.normalize, "normalize", true, "L2-normalize points after loading")
}

func addTableFlags(fs *pflag.FlagSet, f *cliFlags) {
	fs.StringVar(&f.family, "family", "", "hash family (hyperplane, cross_polytope)")
	fs.IntVar(&f.l, "l", 0, "number of hash tables")
	fs.IntVar(&f.k, "k", 0, "hash functions per table")
	fs.IntVar(&f.bits, "bits", 0, "hash bits per table (alternative to --k)")
	fs.StringVar(&f.backend, "backend", "", "hash table backend (linear_probing, roaring)")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed")
	fs.IntVar(&f.buildWorkers, "build-workers", 0, "hashing goroutines (0 = GOMAXPROCS)")
}

// loadConfig reads the configuration file and applies explicitly set flags.
func loadConfig(cmd *cobra.Command, f *cliFlags) (Config, error) {
	cfg, err := LoadConfig(f.configPath)
	if err != nil {
		return cfg, err
	}

	changed := cmd.Flags().Changed
	set := func(name string, apply func()) {
		if changed(name) {
			apply()
		}
	}

	set("log-level", func() { cfg.Log.Level = f.logLevel })
	set("log-format", func() { cfg.Log.Format = f.logFormat })
	set("store", func() { cfg.Store.Type = f.storeType })
	set("store-path", func() { cfg.Store.Path = f.storePath })
	set("base", func() { cfg.Dataset.Base = f.base })
	set("queries", func() { cfg.Dataset.Queries = f.queries })
	set("ground-truth", func() { cfg.Dataset.GroundTruth = f.groundTruth })
	set("limit", func() { cfg.Dataset.Limit = f.limit })
	set("query-limit", func() { cfg.Dataset.QueryLimit = f.queryLimit })
	set("normalize", func() { cfg.Dataset.Normalize = f.normalize })
	set("family", func() { cfg.Table.Family = f.family })
	set("l", func() { cfg.Table.L = f.l })
	set("k", func() { cfg.Table.K, cfg.Table.NumHashBits = f.k, 0 })
	set("bits", func() { cfg.Table.NumHashBits, cfg.Table.K = f.bits, 0 })
	set("backend", func() { cfg.Table.Backend = f.backend })
	set("seed", func() { cfg.Table.Seed = f.seed })
	set("build-workers", func() { cfg.Table.BuildWorkers = f.buildWorkers })
	set("top-k", func() { cfg.Query.K = f.topK })
	set("probes", func() { cfg.Query.NumProbes = f.probes })
	set("max-candidates", func() { cfg.Query.MaxNumCandidates = f.maxCands })
	set("concurrency", func() { cfg.Query.Concurrency = f.concurrency })
	set("qps", func() { cfg.Query.QPS = f.qps })

	if cfg.Dataset.Base == "" {
		return cfg, errors.New("dataset.base is required")
	}
	return cfg, cfg.Validate()
}

// run loads the dataset, builds a table and, with withQueries, runs the
// query phase. The report is written to out.
func run(ctx context.Context, cfg Config, progress, out io.Writer, withQueries bool) error {
	logger, err := cfg.Log.Logger()
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	logger = &lsh.Logger{Logger: logger.With("run_id", runID)}

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	var ioLimit *resource.Controller
	if cfg.Store.IOLimit > 0 {
		ioLimit = resource.NewController(resource.Config{IOLimitBytesPerSec: cfg.Store.IOLimit})
	}

	env := &runEnv{
		cfg:      cfg,
		runID:    runID,
		logger:   logger,
		metrics:  &lsh.BasicMetricsCollector{},
		progress: progress,
	}
	ld := &loader{store: store, rc: ioLimit, cfg: cfg.Dataset, logger: logger.Logger}

	switch format, _ := dataset.DetectFormat(cfg.Dataset.Base); format {
	case dataset.FormatFvecs:
		w, err := ld.dense(ctx, withQueries, cfg.Query.K)
		if err != nil {
			return err
		}
		return runWorkload(ctx, env, w, withQueries, out)
	case dataset.FormatSVM:
		w, err := ld.sparse(ctx, withQueries, cfg.Query.K)
		if err != nil {
			return err
		}
		return runWorkload(ctx, env, w, withQueries, out)
	default:
		return fmt.Errorf("%w: %s", dataset.ErrUnknownFormat, cfg.Dataset.Base)
	}
}

func runWorkload[P lsh.Point](ctx context.Context, env *runEnv, w *workload[P], withQueries bool, out io.Writer) error {
	t, report, err := buildTable(env, w)
	if err != nil {
		return err
	}

	if withQueries {
		report.Dataset.Queries = env.cfg.Dataset.Queries
		report.Dataset.NumQueries = len(w.queries)
		if report.Query, err = runQueries(ctx, env, t, w); err != nil {
			return err
		}
	}
	report.Metrics = newMetricsReport(env.metrics.GetStats())
	return writeYAML(out, report)
}

func progressWriter(cmd *cobra.Command, f *cliFlags) io.Writer {
	if !f.progress {
		return nil
	}
	return cmd.ErrOrStderr()
}
