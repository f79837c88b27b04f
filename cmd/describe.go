package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/concrete-split/split/dataset"
	"github.com/inference-sim/concrete-split/split/report"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print column statistics of the dataset",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(configPath, cmd.Flags())
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		records, err := dataset.Load(cfg.Input, cfg.DatasetOptions())
		if err != nil {
			logrus.Fatalf("Failed to load dataset: %v", err)
		}
		if err := report.WriteSummary(cmd.OutOrStdout(), cfg.Input, report.Summarize(records)); err != nil {
			logrus.Fatalf("Failed to write summary: %v", err)
		}
	},
}

func init() {
	addDatasetFlags(describeCmd.Flags())
	rootCmd.AddCommand(describeCmd)
}
