// Package network is a small fully connected feed-forward network trained with
// per-sample gradient descent on half squared error. It predicts concrete
// compressive strength from the split's training block.
package network

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Activation is an element-wise layer activation. Derivative takes the activation's
// output, not its input.
type Activation struct {
	Name       string
	Apply      func(x float64) float64
	Derivative func(y float64) float64
}

var (
	// Sigmoid is the logistic function.
	Sigmoid = Activation{
		Name:       "sigmoid",
		Apply:      func(x float64) float64 { return 1 / (1 + math.Exp(-x)) },
		Derivative: func(y float64) float64 { return y * (1 - y) },
	}
	// Linear passes its input through.
	Linear = Activation{
		Name:       "linear",
		Apply:      func(x float64) float64 { return x },
		Derivative: func(float64) float64 { return 1 },
	}
)

// LayerSpec describes one layer: its number of units and their activation.
type LayerSpec struct {
	Units      int
	Activation Activation
}

type layer struct {
	weights *mat.Dense    // units x inputs
	bias    *mat.VecDense // units
	act     Activation
}

func (l *layer) inputs() int {
	_, c := l.weights.Dims()
	return c
}

// Network is a stack of fully connected layers. Not safe for concurrent use.
type Network struct {
	inputs int
	layers []*layer
}

// New builds a network with the given number of inputs and layers. Weights are drawn
// uniformly from [-1/sqrt(fan-in), 1/sqrt(fan-in)] using rng; biases start at zero.
func New(rng *rand.Rand, inputs int, specs ...LayerSpec) (*Network, error) {
	if rng == nil {
		return nil, errors.New("network initialization requires a random source")
	}
	if inputs <= 0 {
		return nil, fmt.Errorf("network needs at least one input, got %d", inputs)
	}
	if len(specs) == 0 {
		return nil, errors.New("network needs at least one layer")
	}
	n := &Network{inputs: inputs}
	fanIn := inputs
	for i, spec := range specs {
		if spec.Units <= 0 {
			return nil, fmt.Errorf("layer %d: units must be positive, got %d", i, spec.Units)
		}
		if spec.Activation.Apply == nil || spec.Activation.Derivative == nil {
			return nil, fmt.Errorf("layer %d: activation is not set", i)
		}
		limit := 1 / math.Sqrt(float64(fanIn))
		data := make([]float64, spec.Units*fanIn)
		for j := range data {
			data[j] = (2*rng.Float64() - 1) * limit
		}
		n.layers = append(n.layers, &layer{
			weights: mat.NewDense(spec.Units, fanIn, data),
			bias:    mat.NewVecDense(spec.Units, nil),
			act:     spec.Activation,
		})
		fanIn = spec.Units
	}
	return n, nil
}

// Inputs returns the number of input values the network expects.
func (n *Network) Inputs() int { return n.inputs }

// Outputs returns the number of units in the last layer.
func (n *Network) Outputs() int {
	r, _ := n.layers[len(n.layers)-1].weights.Dims()
	return r
}

// Forward returns the network's output for x.
func (n *Network) Forward(x []float64) []float64 {
	acts := n.forward(x)
	out := acts[len(acts)-1]
	return mat.Col(nil, 0, out)
}

// forward returns the activations of every layer, starting with the input.
func (n *Network) forward(x []float64) []*mat.VecDense {
	if len(x) != n.inputs {
		panic(fmt.Sprintf("network: got %d inputs, want %d", len(x), n.inputs))
	}
	acts := make([]*mat.VecDense, len(n.layers)+1)
	acts[0] = mat.NewVecDense(len(x), append([]float64(nil), x...))
	for i, l := range n.layers {
		units, _ := l.weights.Dims()
		z := mat.NewVecDense(units, nil)
		z.MulVec(l.weights, acts[i])
		z.AddVec(z, l.bias)
		for j := 0; j < units; j++ {
			z.SetVec(j, l.act.Apply(z.AtVec(j)))
		}
		acts[i+1] = z
	}
	return acts
}

// Step runs one forward and backward pass for a single sample and updates the weights
// with learning rate lr. Returns the sample's half squared error before the update.
func (n *Network) Step(x, target []float64, lr float64) float64 {
	acts := n.forward(x)
	out := acts[len(acts)-1]
	if len(target) != out.Len() {
		panic(fmt.Sprintf("network: got %d targets, want %d", len(target), out.Len()))
	}

	last := n.layers[len(n.layers)-1]
	delta := mat.NewVecDense(out.Len(), nil)
	var loss float64
	for j := 0; j < out.Len(); j++ {
		e := out.AtVec(j) - target[j]
		loss += HalfSquaredError(out.AtVec(j), target[j])
		delta.SetVec(j, e*last.act.Derivative(out.AtVec(j)))
	}

	for i := len(n.layers) - 1; i >= 0; i-- {
		l := n.layers[i]
		var prev *mat.VecDense
		if i > 0 {
			// propagate through the weights before they are updated
			prev = mat.NewVecDense(l.inputs(), nil)
			prev.MulVec(l.weights.T(), delta)
			below := n.layers[i-1].act
			for j := 0; j < prev.Len(); j++ {
				prev.SetVec(j, prev.AtVec(j)*below.Derivative(acts[i].AtVec(j)))
			}
		}
		var grad mat.Dense
		grad.Outer(lr, delta, acts[i])
		l.weights.Sub(l.weights, &grad)
		l.bias.AddScaledVec(l.bias, -lr, delta)
		delta = prev
	}
	return loss
}

// HalfSquaredError is 0.5 * (predicted - target)^2.
func HalfSquaredError(predicted, target float64) float64 {
	e := predicted - target
	return 0.5 * e * e
}
