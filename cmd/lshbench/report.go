package main

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/lsh"
)

// Report is printed as YAML at the end of a run.
type Report struct {
	RunID   string         `yaml:"run_id"`
	Dataset DatasetReport  `yaml:"dataset"`
	Table   TableReport    `yaml:"table"`
	Build   BuildReport    `yaml:"build"`
	Query   *QueryReport   `yaml:"query,omitempty"`
	Metrics *MetricsReport `yaml:"metrics,omitempty"`
}

type DatasetReport struct {
	Base       string `yaml:"base"`
	NumPoints  int    `yaml:"num_points"`
	Dimension  int    `yaml:"dimension"`
	Sparse     bool   `yaml:"sparse"`
	Queries    string `yaml:"queries,omitempty"`
	NumQueries int    `yaml:"num_queries,omitempty"`
}

type TableReport struct {
	Family                  string `yaml:"family"`
	Backend                 string `yaml:"backend"`
	L                       int    `yaml:"l"`
	K                       int    `yaml:"k"`
	NumRotations            int    `yaml:"num_rotations,omitempty"`
	LastCPDimension         int    `yaml:"last_cp_dimension,omitempty"`
	FeatureHashingDimension int    `yaml:"feature_hashing_dimension,omitempty"`
	Seed                    uint64 `yaml:"seed"`
}

func newTableReport(p lsh.Parameters, backend string) TableReport {
	return TableReport{
		Family:                  p.Family.String(),
		Backend:                 backend,
		L:                       p.L,
		K:                       p.K,
		NumRotations:            p.NumRotations,
		LastCPDimension:         p.LastCPDimension,
		FeatureHashingDimension: p.FeatureHashingDimension,
		Seed:                    p.Seed,
	}
}

type BuildReport struct {
	Seconds float64 `yaml:"seconds"`
	Workers int     `yaml:"workers"`
}

type QueryReport struct {
	K                int     `yaml:"k"`
	NumProbes        int     `yaml:"num_probes"`
	MaxNumCandidates int     `yaml:"max_num_candidates"`
	Concurrency      int     `yaml:"concurrency"`
	PeakInFlight     int64   `yaml:"peak_in_flight"`
	Seconds          float64 `yaml:"seconds"`
	QueriesPerSecond float64 `yaml:"queries_per_second"`
	Recall           float64 `yaml:"recall"`
	RecallSource     string  `yaml:"recall_source"`

	AverageQueryMillis      float64 `yaml:"avg_query_ms"`
	AverageLSHMillis        float64 `yaml:"avg_lsh_ms"`
	AverageHashTableMillis  float64 `yaml:"avg_hash_table_ms"`
	AverageDistanceMillis   float64 `yaml:"avg_distance_ms"`
	AverageCandidates       float64 `yaml:"avg_candidates"`
	AverageUniqueCandidates float64 `yaml:"avg_unique_candidates"`
}

func (r *QueryReport) setStatistics(s lsh.QueryStatistics) {
	r.AverageQueryMillis = s.AverageTotalQueryTime * 1e3
	r.AverageLSHMillis = s.AverageLSHTime * 1e3
	r.AverageHashTableMillis = s.AverageHashTableTime * 1e3
	r.AverageDistanceMillis = s.AverageDistanceTime * 1e3
	r.AverageCandidates = s.AverageNumCandidates
	r.AverageUniqueCandidates = s.AverageNumUniqueCandidates
}

type MetricsReport struct {
	Builds       int64 `yaml:"builds"`
	Queries      int64 `yaml:"queries"`
	QueryErrors  int64 `yaml:"query_errors"`
	QueryResults int64 `yaml:"query_results"`
}

func newMetricsReport(s lsh.BasicMetricsStats) *MetricsReport {
	return &MetricsReport{
		Builds:       s.BuildCount,
		Queries:      s.QueryCount,
		QueryErrors:  s.QueryErrors,
		QueryResults: s.QueryResults,
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
