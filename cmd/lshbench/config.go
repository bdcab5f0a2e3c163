package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/lsh"
)

// Config is the lshbench configuration file layout.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Dataset DatasetConfig `yaml:"dataset"`
	Table   TableConfig   `yaml:"table"`
	Query   QueryConfig   `yaml:"query"`
	Log     LogConfig     `yaml:"log"`
}

// StoreConfig selects where dataset files are read from.
type StoreConfig struct {
	// Type is one of local, s3 or minio.
	Type      string `yaml:"type"`
	Path      string `yaml:"path,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	Profile   string `yaml:"profile,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	Secure    bool   `yaml:"secure,omitempty"`
	// IOLimit caps dataset read throughput in bytes per second.
	IOLimit int64 `yaml:"io_limit_bytes_per_sec,omitempty"`
}

// DatasetConfig names the dataset files relative to the store.
type DatasetConfig struct {
	Base        string `yaml:"base"`
	Queries     string `yaml:"queries,omitempty"`
	GroundTruth string `yaml:"ground_truth,omitempty"`
	Normalize   bool   `yaml:"normalize"`
	Limit       int    `yaml:"limit,omitempty"`
	QueryLimit  int    `yaml:"query_limit,omitempty"`
}

// TableConfig mirrors lsh.Parameters plus build options. Zero values fall
// back to the library defaults.
type TableConfig struct {
	Family                  string `yaml:"family"`
	L                       int    `yaml:"l,omitempty"`
	K                       int    `yaml:"k,omitempty"`
	NumHashBits             int    `yaml:"num_hash_bits,omitempty"`
	NumRotations            int    `yaml:"num_rotations,omitempty"`
	LastCPDimension         int    `yaml:"last_cp_dimension,omitempty"`
	FeatureHashingDimension int    `yaml:"feature_hashing_dimension,omitempty"`
	Seed                    uint64 `yaml:"seed,omitempty"`
	Backend                 string `yaml:"backend,omitempty"`
	BuildWorkers            int    `yaml:"build_workers,omitempty"`
}

// QueryConfig controls the query phase.
type QueryConfig struct {
	K                int     `yaml:"k"`
	NumProbes        int     `yaml:"num_probes,omitempty"`
	MaxNumCandidates int     `yaml:"max_num_candidates"`
	Concurrency      int     `yaml:"concurrency,omitempty"`
	QPS              float64 `yaml:"qps,omitempty"`
	Burst            int     `yaml:"burst,omitempty"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{Type: "local", Path: "."},
		Dataset: DatasetConfig{
			Normalize: true,
		},
		Table: TableConfig{
			Family:  lsh.CrossPolytope.String(),
			Backend: lsh.LinearProbingBackend.String(),
		},
		Query: QueryConfig{
			K:                10,
			MaxNumCandidates: lsh.NoMaxNumCandidates,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields every command needs.
func (c Config) Validate() error {
	var errs []error

	switch c.Store.Type {
	case "local":
	case "s3", "minio":
		if c.Store.Bucket == "" {
			errs = append(errs, fmt.Errorf("store.bucket is required for %s", c.Store.Type))
		}
		if c.Store.Type == "minio" && c.Store.Endpoint == "" {
			errs = append(errs, errors.New("store.endpoint is required for minio"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.type %q is not one of local, s3, minio", c.Store.Type))
	}

	if _, err := lsh.ParseFamily(c.Table.Family); err != nil {
		errs = append(errs, fmt.Errorf("table.family: %w", err))
	}
	if _, err := lsh.ParseHashTableBackend(c.Table.Backend); err != nil {
		errs = append(errs, fmt.Errorf("table.backend: %w", err))
	}
	if c.Table.K > 0 && c.Table.NumHashBits > 0 {
		errs = append(errs, errors.New("table.k and table.num_hash_bits are mutually exclusive"))
	}
	if c.Query.K < 1 {
		errs = append(errs, fmt.Errorf("query.k must be at least 1, got %d", c.Query.K))
	}
	if _, err := c.Log.level(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of text, json", c.Log.Format))
	}

	return errors.Join(errs...)
}

func (l LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Logger builds the configured logger.
func (l LogConfig) Logger() (*lsh.Logger, error) {
	level, err := l.level()
	if err != nil {
		return nil, err
	}
	if l.Format == "json" {
		return lsh.NewJSONLogger(level), nil
	}
	return lsh.NewTextLogger(level), nil
}
