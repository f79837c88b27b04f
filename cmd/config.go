package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/concrete-split/split"
	"github.com/inference-sim/concrete-split/split/dataset"
)

// Reference constants of the concrete_data.xlsx split.
const (
	defaultInput       = "concrete_data.xlsx"
	defaultDatasetSize = 699
	defaultSampleSize  = 175
)

// Config is the YAML run configuration. Every field can also be set by a flag;
// explicitly passed flags win over the file.
type Config struct {
	Input       string          `yaml:"input"`
	Sheet       string          `yaml:"sheet,omitempty"`
	DatasetSize int             `yaml:"dataset_size"` // 0 = number of records read
	SampleSize  int             `yaml:"sample_size"`
	Seed        *int64          `yaml:"seed,omitempty"` // nil = new seed per run
	Range       string          `yaml:"range"`
	Strategy    string          `yaml:"strategy"`
	Output      string          `yaml:"output,omitempty"` // empty = stdout
	Columns     dataset.Columns `yaml:"columns"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Input:       defaultInput,
		DatasetSize: defaultDatasetSize,
		SampleSize:  defaultSampleSize,
		Range:       string(split.RangeExact),
		Strategy:    string(split.StrategyAuto),
		Columns:     dataset.DefaultColumns(),
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Columns = cfg.Columns.WithDefaults()
	return &cfg, nil
}

// Validate checks that all fields in the config are valid.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input path must not be empty")
	}
	if c.DatasetSize < 0 {
		return fmt.Errorf("%w: dataset_size must be non-negative, got %d", split.ErrInvalidSampleSize, c.DatasetSize)
	}
	if c.SampleSize < 0 {
		return fmt.Errorf("%w: sample_size must be non-negative, got %d", split.ErrInvalidSampleSize, c.SampleSize)
	}
	if c.DatasetSize > 0 && c.SampleSize > c.DatasetSize {
		return fmt.Errorf("%w: sample_size %d exceeds dataset_size %d", split.ErrInvalidSampleSize, c.SampleSize, c.DatasetSize)
	}
	if !split.IsValidRangeMode(c.Range) {
		return fmt.Errorf("unknown range %q; valid: exact, inclusive", c.Range)
	}
	if !split.IsValidStrategy(c.Strategy) {
		return fmt.Errorf("unknown strategy %q; valid: auto, rejection, shuffle", c.Strategy)
	}
	return nil
}

// SampleOptions returns the sampling options selected by the config.
func (c *Config) SampleOptions() split.SampleOptions {
	return split.SampleOptions{
		Range:    split.RangeMode(c.Range),
		Strategy: split.Strategy(c.Strategy),
	}
}

// RunSeed returns the configured seed, or a clock-derived seed when none was set.
// Zero is a valid explicit seed.
func (c *Config) RunSeed() (seed int64, derived bool) {
	if c.Seed != nil {
		return *c.Seed, false
	}
	return split.ClockSeed(), true
}

// DatasetOptions returns the reader options selected by the config.
func (c *Config) DatasetOptions() dataset.Options {
	return dataset.Options{Sheet: c.Sheet, Columns: c.Columns}
}
