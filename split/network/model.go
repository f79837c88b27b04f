package network

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/concrete-split/split/dataset"
)

// ErrNoTrainingData is returned when Train receives no records.
var ErrNoTrainingData = errors.New("no training records")

// featureCount is the number of model inputs: cement, water, superplasticizer, age.
const featureCount = 4

// TrainConfig configures Train.
type TrainConfig struct {
	Epochs       int
	LearningRate float64
	Hidden       int // units in the sigmoid hidden layer
}

// DefaultTrainConfig returns 11 epochs at learning rate 0.1 with 8 hidden units.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{Epochs: 11, LearningRate: 0.1, Hidden: 8}
}

// Validate checks that all fields in the config are valid.
func (c TrainConfig) Validate() error {
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", c.Epochs)
	}
	if !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 1) {
		return fmt.Errorf("learning rate must be a positive finite number, got %v", c.LearningRate)
	}
	if c.Hidden <= 0 {
		return fmt.Errorf("hidden units must be positive, got %d", c.Hidden)
	}
	return nil
}

// Scaler maps each column linearly onto [0, 1] using the minimum and maximum seen when
// it was fitted. A constant column maps to 0.
type Scaler struct {
	Min []float64
	Max []float64
}

// FitScaler computes per-column bounds. columns[i] holds every value of column i.
func FitScaler(columns [][]float64) Scaler {
	s := Scaler{Min: make([]float64, len(columns)), Max: make([]float64, len(columns))}
	for i, col := range columns {
		if len(col) == 0 {
			continue
		}
		s.Min[i] = floats.Min(col)
		s.Max[i] = floats.Max(col)
	}
	return s
}

// Scale maps v from column i onto the unit interval.
func (s Scaler) Scale(i int, v float64) float64 {
	span := s.Max[i] - s.Min[i]
	if span == 0 {
		return 0
	}
	return (v - s.Min[i]) / span
}

// Unscale is the inverse of Scale.
func (s Scaler) Unscale(i int, v float64) float64 {
	return s.Min[i] + v*(s.Max[i]-s.Min[i])
}

// Model is a trained strength predictor: a 4-input network with one sigmoid hidden
// layer and a linear output, plus the scaling fitted on its training records.
type Model struct {
	net    *Network
	scaler Scaler // columns follow dataset.Record.Values order
}

// Train fits a model on records. weights seeds the initial weights and order shuffles
// the records at the start of every epoch. Returns the mean per-sample loss of each epoch.
func Train(weights, order *rand.Rand, records []dataset.Record, cfg TrainConfig) (*Model, []float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, ErrNoTrainingData
	}
	if order == nil {
		return nil, nil, errors.New("training requires a random source for sample order")
	}
	net, err := New(weights, featureCount,
		LayerSpec{Units: cfg.Hidden, Activation: Sigmoid},
		LayerSpec{Units: 1, Activation: Linear},
	)
	if err != nil {
		return nil, nil, err
	}

	m := &Model{net: net, scaler: FitScaler(columnsOf(records))}
	inputs := make([][]float64, len(records))
	targets := make([][]float64, len(records))
	for i, r := range records {
		inputs[i] = m.features(r.Cement, r.Water, r.Superplasticizer, r.Age)
		targets[i] = []float64{m.scaler.Scale(featureCount, r.Strength)}
	}

	perm := make([]int, len(records))
	for i := range perm {
		perm[i] = i
	}
	losses := make([]float64, 0, cfg.Epochs)
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		order.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
		var total float64
		for _, idx := range perm {
			total += net.Step(inputs[idx], targets[idx], cfg.LearningRate)
		}
		loss := total / float64(len(records))
		losses = append(losses, loss)
		logrus.Debugf("Epoch %d/%d: loss %.6f", epoch+1, cfg.Epochs, loss)
	}
	return m, losses, nil
}

// Predict returns the predicted compressive strength for one mixture.
func (m *Model) Predict(cement, water, superplasticizer, age float64) float64 {
	out := m.net.Forward(m.features(cement, water, superplasticizer, age))
	return m.scaler.Unscale(featureCount, out[0])
}

func (m *Model) features(cement, water, superplasticizer, age float64) []float64 {
	raw := [featureCount]float64{cement, water, superplasticizer, age}
	x := make([]float64, featureCount)
	for i, v := range raw {
		x[i] = m.scaler.Scale(i, v)
	}
	return x
}

// Metrics summarizes prediction error over a set of records, in strength units.
type Metrics struct {
	Count int
	RMSE  float64
	MAE   float64
	R2    float64 // NaN when fewer than two distinct strengths
}

// Evaluate scores the model against records. The zero Metrics is returned for no records.
func (m *Model) Evaluate(records []dataset.Record) Metrics {
	if len(records) == 0 {
		return Metrics{}
	}
	predicted := make([]float64, len(records))
	actual := make([]float64, len(records))
	var sq, abs float64
	for i, r := range records {
		predicted[i] = m.Predict(r.Cement, r.Water, r.Superplasticizer, r.Age)
		actual[i] = r.Strength
		e := predicted[i] - actual[i]
		sq += e * e
		abs += math.Abs(e)
	}
	n := float64(len(records))
	r2 := math.NaN()
	if floats.Min(actual) != floats.Max(actual) {
		r2 = stat.RSquaredFrom(predicted, actual, nil)
	}
	return Metrics{Count: len(records), RMSE: math.Sqrt(sq / n), MAE: abs / n, R2: r2}
}

// columnsOf transposes records into the five value columns.
func columnsOf(records []dataset.Record) [][]float64 {
	columns := make([][]float64, featureCount+1)
	for _, r := range records {
		for i, v := range r.Values() {
			columns[i] = append(columns[i], v)
		}
	}
	return columns
}
