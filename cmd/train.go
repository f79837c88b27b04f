package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/concrete-split/split"
	"github.com/inference-sim/concrete-split/split/network"
	"github.com/inference-sim/concrete-split/split/report"
)

// stdinPath selects standard input for --blocks.
const stdinPath = "-"

var (
	blocksPath   string  // Path to split output
	trainEpochs  int     // Passes over the training block
	learningRate float64 // Gradient descent step size
	hiddenUnits  int     // Units in the sigmoid hidden layer
	trainSeed    int64   // Seed for weight initialization and sample order
	interactive  bool    // Prompt for mixtures after training
)

// trainOptions holds the resolved train command settings.
type trainOptions struct {
	Config network.TrainConfig
	Seed   *int64 // nil = new seed per run
}

// trainCmd fits a strength predictor on the training block of split output
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a strength predictor on split output",
	Long: "Read the test and training blocks written by split, train a 4-8-1 network " +
		"(sigmoid hidden layer, linear output) on the training block and report error on both blocks. " +
		"With --interactive, then prompt for cement, water, superplasticizer and age and print the predicted strength.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateTrainInputs(blocksPath, interactive); err != nil {
			logrus.Fatalf("Invalid arguments: %v", err)
		}
		opts := trainOptions{Config: network.TrainConfig{Epochs: trainEpochs, LearningRate: learningRate, Hidden: hiddenUnits}}
		if cmd.Flags().Changed("seed") {
			opts.Seed = &trainSeed
		}

		in := cmd.InOrStdin()
		if blocksPath != stdinPath {
			file, err := os.Open(blocksPath)
			if err != nil {
				logrus.Fatalf("Failed to open blocks: %v", err)
			}
			defer file.Close()
			in = file
		}
		model, err := runTrain(opts, in, cmd.OutOrStdout())
		if err != nil {
			logrus.Fatalf("Training failed: %v", err)
		}
		if interactive {
			if err := promptLoop(model, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				logrus.Fatalf("Reading input: %v", err)
			}
		}
	},
}

// runTrain reads split output from blocks, trains on the training block and writes
// an error table for both blocks to out.
func runTrain(opts trainOptions, blocks io.Reader, out io.Writer) (*network.Model, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	test, train, err := report.ReadBlocks(blocks)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Read %d test and %d training records", len(test), len(train))

	seed := split.ClockSeed()
	if opts.Seed != nil {
		seed = *opts.Seed
	} else {
		logrus.Infof("No seed given; using %d", seed)
	}
	streams := split.NewStreams(seed)
	model, losses, err := network.Train(streams.Get(split.StreamWeights), streams.Get(split.StreamEpochOrder), train, opts.Config)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Trained %d epochs with seed %d: final loss %.6f", len(losses), streams.Seed(), losses[len(losses)-1])

	if err := writeMetrics(out, map[string]network.Metrics{
		"test":     model.Evaluate(test),
		"training": model.Evaluate(train),
	}); err != nil {
		return nil, fmt.Errorf("writing metrics: %w", err)
	}
	return model, nil
}

func writeMetrics(w io.Writer, metrics map[string]network.Metrics) error {
	table := tablewriter.NewWriter(w)
	table.Header("subset", "records", "rmse", "mae", "r2")
	for _, name := range []string{"test", "training"} {
		m := metrics[name]
		row := []string{name, strconv.Itoa(m.Count), "-", "-", "-"}
		if m.Count > 0 {
			row[2], row[3], row[4] = fixed(m.RMSE), fixed(m.MAE), fixed(m.R2)
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func fixed(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// mixtureFields are prompted in model input order.
var mixtureFields = []string{"Cement", "Water", "Superplasticizer", "Age"}

// promptLoop reads mixtures from in and prints predicted strength to out until in is exhausted.
// A value that is not a finite number is asked for again.
func promptLoop(model *network.Model, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		values := make([]float64, 0, len(mixtureFields))
		for len(values) < len(mixtureFields) {
			fmt.Fprintf(out, "%s: ", mixtureFields[len(values)])
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(scanner.Text()), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				fmt.Fprintln(out, "Invalid input, try again")
				continue
			}
			values = append(values, v)
		}
		strength := model.Predict(values[0], values[1], values[2], values[3])
		fmt.Fprintf(out, "Concrete compressive strength: %.2f\n", strength)
	}
}

var errStdinConflict = errors.New("--interactive needs --blocks <file>: stdin is read for mixtures")

// validateTrainInputs rejects reading both the blocks and the prompted mixtures from stdin.
func validateTrainInputs(blocks string, interactive bool) error {
	if interactive && blocks == stdinPath {
		return errStdinConflict
	}
	return nil
}

func init() {
	defaults := network.DefaultTrainConfig()
	trainCmd.Flags().StringVar(&blocksPath, "blocks", stdinPath, "Path to split output (- = stdin)")
	trainCmd.Flags().IntVar(&trainEpochs, "epochs", defaults.Epochs, "Passes over the training block")
	trainCmd.Flags().Float64Var(&learningRate, "learning-rate", defaults.LearningRate, "Gradient descent step size")
	trainCmd.Flags().IntVar(&hiddenUnits, "hidden", defaults.Hidden, "Units in the sigmoid hidden layer")
	trainCmd.Flags().Int64Var(&trainSeed, "seed", 0, "Seed for weight initialization and sample order (unset = new seed per run)")
	trainCmd.Flags().BoolVar(&interactive, "interactive", false, "Prompt for mixtures and print predicted strength after training")
	rootCmd.AddCommand(trainCmd)
}
