package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/inference-sim/concrete-split/split"
	"github.com/inference-sim/concrete-split/split/dataset"
	"github.com/inference-sim/concrete-split/split/report"
)

var (
	configPath   string // Path to YAML run configuration
	printSummary bool   // Print per-subset column statistics to stderr
)

// splitCmd samples the test rows and prints both subsets
var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Sample a test subset and print test and training rows",
	Long: "Read the dataset, sample sample-size row positions without replacement, and print the test block " +
		"followed by the training block. Each block is a count line followed by one " +
		"\"cement water superplasticizer age strength\" line per row.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(configPath, cmd.Flags())
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		out := cmd.OutOrStdout()
		if cfg.Output != "" {
			file, err := os.Create(cfg.Output)
			if err != nil {
				logrus.Fatalf("Failed to create output file: %v", err)
			}
			defer file.Close()
			out = file
		}
		if err := runSplit(cfg, out, cmd.ErrOrStderr(), printSummary); err != nil {
			logrus.Fatalf("Split failed: %v", err)
		}
	},
}

// resolveConfig loads the config file (if any), applies explicitly set flags and validates.
func resolveConfig(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = *loaded
	}
	if err := applyFlagOverrides(flags, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyFlagOverrides copies flags the user explicitly set into cfg.
// Unset flags never overwrite values from the config file.
func applyFlagOverrides(flags *pflag.FlagSet, cfg *Config) error {
	var err error
	str := func(name string, dst *string) {
		if err == nil && flags.Lookup(name) != nil && flags.Changed(name) {
			*dst, err = flags.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if err == nil && flags.Lookup(name) != nil && flags.Changed(name) {
			*dst, err = flags.GetInt(name)
		}
	}
	str("input", &cfg.Input)
	str("sheet", &cfg.Sheet)
	num("dataset-size", &cfg.DatasetSize)
	num("sample-size", &cfg.SampleSize)
	str("range", &cfg.Range)
	str("strategy", &cfg.Strategy)
	str("output", &cfg.Output)
	if err == nil && flags.Lookup("seed") != nil && flags.Changed("seed") {
		var seed int64
		if seed, err = flags.GetInt64("seed"); err == nil {
			cfg.Seed = &seed
		}
	}
	return err
}

// runSplit loads the dataset, splits it and writes both blocks to out.
// When summary is set, per-subset column statistics go to diag.
func runSplit(cfg Config, out, diag io.Writer, summary bool) error {
	records, err := dataset.Load(cfg.Input, cfg.DatasetOptions())
	if err != nil {
		return err
	}
	logrus.Infof("Loaded %d records from %s", len(records), cfg.Input)

	n := cfg.DatasetSize
	if n == 0 {
		n = len(records)
	} else if n != len(records) {
		logrus.Warnf("dataset_size is %d but %s holds %d records", n, cfg.Input, len(records))
	}
	if split.RangeMode(cfg.Range) == split.RangeInclusive {
		logrus.Warnf("inclusive range: a draw of position %d selects no record", n)
	}

	seed, derived := cfg.RunSeed()
	if derived {
		logrus.Infof("No seed given; using %d", seed)
	}
	streams := split.NewStreams(seed)
	result, err := split.Split(streams.Get(split.StreamSample), records, n, cfg.SampleSize, cfg.SampleOptions())
	if err != nil {
		return err
	}
	if missed := result.Unmatched(); missed > 0 {
		logrus.Warnf("%d sampled positions fall outside the %d records read", missed, len(records))
	}
	logrus.Infof("Split with seed %d: %d test, %d training", streams.Seed(), len(result.Test), len(result.Train))

	if err := report.WriteBlocks(out, result.Test, result.Train); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if summary {
		for _, subset := range []struct {
			name    string
			records []dataset.Record
		}{{"test", result.Test}, {"training", result.Train}} {
			if err := report.WriteSummary(diag, subset.name, report.Summarize(subset.records)); err != nil {
				return fmt.Errorf("writing summary: %w", err)
			}
		}
	}
	return nil
}

// addDatasetFlags registers the flags shared by commands that read the dataset.
func addDatasetFlags(flags *pflag.FlagSet) {
	flags.StringVar(&configPath, "config", "", "Path to YAML run configuration")
	flags.String("input", defaultInput, "Path to the dataset (.xlsx, .xlsm or .csv)")
	flags.String("sheet", "", "Spreadsheet sheet name (default: first sheet)")
}

// addSplitFlags registers the split command's flags.
func addSplitFlags(flags *pflag.FlagSet) {
	addDatasetFlags(flags)
	flags.Int("dataset-size", defaultDatasetSize, "Number of rows to sample positions from (0 = number of records read)")
	flags.Int("sample-size", defaultSampleSize, "Number of rows in the test subset")
	flags.Int64("seed", 0, "Seed for test-row sampling (unset = new seed per run)")
	flags.String("range", string(split.RangeExact), "Sampling range: exact [0, N-1] or inclusive [0, N]")
	flags.String("strategy", string(split.StrategyAuto), "Sampling strategy: auto, rejection or shuffle")
	flags.String("output", "", "Write the blocks to this file instead of stdout")
	flags.BoolVar(&printSummary, "summary", false, "Print per-subset column statistics to stderr")
}

func init() {
	addSplitFlags(splitCmd.Flags())
	rootCmd.AddCommand(splitCmd)
}
