package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newQueryCmd(f *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Build a table, run the query set and report throughput and recall",
		Long: `Build a table over the base set, answer every query with a k-nearest-neighbor
search and report queries per second, per-phase timings and recall. Recall is
measured against the ground-truth file when one is given and against an exact
linear scan otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			if cfg.Dataset.Queries == "" {
				return errors.New("dataset.queries is required")
			}
			return run(cmd.Context(), cfg, progressWriter(cmd, f), cmd.OutOrStdout(), true)
		},
	}

	fs := cmd.Flags()
	addDatasetFlags(fs, f)
	addTableFlags(fs, f)
	fs.StringVar(&f.queries, "queries", "", "query point file")
	fs.StringVar(&f.groundTruth, "ground-truth", "", "ground-truth .ivecs file")
	fs.IntVar(&f.queryLimit, "query-limit", 0, "read at most this many queries")
	fs.IntVar(&f.topK, "top-k", 10, "neighbors per query")
	fs.IntVar(&f.probes, "probes", 0, "probes per query (0 = one per table)")
	fs.IntVar(&f.maxCands, "max-candidates", -1, "candidate cap per query (-1 = unlimited)")
	fs.IntVar(&f.concurrency, "concurrency", 0, "concurrent queries (0 = GOMAXPROCS)")
	fs.Float64Var(&f.qps, "qps", 0, "target queries per second (0 = unlimited)")
	return cmd
}
