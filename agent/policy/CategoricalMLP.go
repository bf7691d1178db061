package policy

import (
	"fmt"

	"github.com/samuelfneumann/mastermind/network"
	"github.com/samuelfneumann/mastermind/utils/op"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// CategoricalMLP scores actions with a multi-layered perceptron whose
// outputs are the logits of a softmax policy.
//
// Two copies of the network are kept. The behaviour network has a
// batch size of 1 and scores single observations. The training network
// has a fixed batch size and holds the gradient of the weighted
// negative log likelihood of a batch of actions. Batches shorter than
// the training batch are padded with rows of weight 0, which add
// nothing to the loss or its gradient. After each optimizer step the
// training weights are copied to the behaviour network.
type CategoricalMLP struct {
	behaviour   network.NeuralNet
	behaviourVM G.VM

	train         network.NeuralNet
	trainVM       G.VM
	solver        G.Solver
	actionIndices *G.Node // one-hot actions, batch x actions
	weights       *G.Node // per-sample loss weights, batch
	lossVal       G.Value

	batch      int
	features   int
	numActions int
}

// NewCategoricalMLP returns a new CategoricalMLP policy scoring
// actions actions of observations with features features. The training
// network learns from at most batch samples at once.
//
// The meaning of hiddenSizes, biases, and activations follows
// network.NewMLP. Weights are initialized with init and updated with
// solver.
func NewCategoricalMLP(features, actions, batch int, hiddenSizes []int,
	biases []bool, activations []*network.Activation, init G.InitWFn,
	solver G.Solver) (*CategoricalMLP, error) {
	if batch < 1 {
		return nil, fmt.Errorf("newCategoricalMLP: batch size must be "+
			"positive, got %d", batch)
	}

	behaviour, err := network.NewMLP(features, 1, actions, G.NewGraph(),
		hiddenSizes, biases, init, activations)
	if err != nil {
		return nil, fmt.Errorf("newCategoricalMLP: could not create "+
			"behaviour network: %v", err)
	}

	train, err := network.NewMLP(features, batch, actions, G.NewGraph(),
		hiddenSizes, biases, init, activations)
	if err != nil {
		return nil, fmt.Errorf("newCategoricalMLP: could not create "+
			"training network: %v", err)
	}

	// Both networks start with the same weights
	if err := behaviour.Set(train); err != nil {
		return nil, fmt.Errorf("newCategoricalMLP: could not set "+
			"behaviour weights: %v", err)
	}

	// Log probability of the actions given as input
	logits := train.Prediction()
	actionIndices := G.NewMatrix(
		train.Graph(),
		tensor.Float64,
		G.WithShape(batch, actions),
		G.WithInit(G.Zeroes()),
		G.WithName("actionIndices"),
	)
	selectedLogits := G.Must(G.HadamardProd(actionIndices, logits))
	selectedLogits = G.Must(G.Sum(selectedLogits, 1))
	logNormalizer, err := op.LogSumExp(logits)
	if err != nil {
		return nil, fmt.Errorf("newCategoricalMLP: %v", err)
	}
	logProb := G.Must(G.Sub(selectedLogits, logNormalizer))

	// Weighted negative log likelihood
	weights := G.NewVector(
		train.Graph(),
		tensor.Float64,
		G.WithShape(batch),
		G.WithInit(G.Zeroes()),
		G.WithName("weights"),
	)
	loss := G.Must(G.HadamardProd(logProb, weights))
	loss = G.Must(G.Sum(loss))
	loss = G.Must(G.Neg(loss))

	if _, err := G.Grad(loss, train.Learnables()...); err != nil {
		return nil, fmt.Errorf("newCategoricalMLP: could not compute "+
			"gradient: %v", err)
	}

	pol := &CategoricalMLP{
		behaviour:     behaviour,
		train:         train,
		solver:        solver,
		actionIndices: actionIndices,
		weights:       weights,
		batch:         batch,
		features:      features,
		numActions:    actions,
	}
	G.Read(loss, &pol.lossVal)

	pol.behaviourVM = G.NewTapeMachine(behaviour.Graph())
	pol.trainVM = G.NewTapeMachine(train.Graph(),
		G.BindDualValues(train.Learnables()...))

	return pol, nil
}

// Features returns the length of observations
func (c *CategoricalMLP) Features() int {
	return c.features
}

// Actions returns the number of actions scored
func (c *CategoricalMLP) Actions() int {
	return c.numActions
}

// BatchSize returns the maximum number of samples Learn accepts
func (c *CategoricalMLP) BatchSize() int {
	return c.batch
}

// Scores returns the logits of the softmax policy at obs
func (c *CategoricalMLP) Scores(obs []float64) ([]float64, error) {
	if err := c.behaviour.SetInput(obs); err != nil {
		return nil, fmt.Errorf("scores: %v", err)
	}

	defer c.behaviourVM.Reset()
	if err := c.behaviourVM.RunAll(); err != nil {
		return nil, fmt.Errorf("scores: could not run forward pass: %v", err)
	}

	logits := c.behaviour.Output().Data().([]float64)
	scores := make([]float64, len(logits))
	copy(scores, logits)

	return scores, nil
}

// Learn takes one solver step on the weighted negative log likelihood
// of actions, then copies the updated weights to the behaviour network
func (c *CategoricalMLP) Learn(obs []float64, actions []int,
	weights []float64) error {
	n := len(actions)
	if n > c.batch {
		return fmt.Errorf("learn: %d samples exceed batch size %d", n, c.batch)
	}
	if len(weights) != n {
		return fmt.Errorf("learn: %d weights for %d actions", len(weights), n)
	}
	if len(obs) != n*c.features {
		return fmt.Errorf("learn: expected %d observation values for %d "+
			"actions, got %d", n*c.features, n, len(obs))
	}

	// Pad the batch with zero observations of weight 0
	input := make([]float64, c.batch*c.features)
	copy(input, obs)

	oneHot := make([]float64, c.batch*c.numActions)
	w := make([]float64, c.batch)
	for i, a := range actions {
		if a < 0 || a >= c.numActions {
			return fmt.Errorf("learn: action %d outside [0, %d)", a,
				c.numActions)
		}
		oneHot[i*c.numActions+a] = 1.0
		w[i] = weights[i]
	}

	if err := c.train.SetInput(input); err != nil {
		return fmt.Errorf("learn: %v", err)
	}
	actionTensor := tensor.New(
		tensor.WithShape(c.batch, c.numActions),
		tensor.WithBacking(oneHot),
	)
	if err := G.Let(c.actionIndices, actionTensor); err != nil {
		return fmt.Errorf("learn: could not set actions: %v", err)
	}
	weightTensor := tensor.New(tensor.WithShape(c.batch), tensor.WithBacking(w))
	if err := G.Let(c.weights, weightTensor); err != nil {
		return fmt.Errorf("learn: could not set weights: %v", err)
	}

	defer c.trainVM.Reset()
	if err := c.trainVM.RunAll(); err != nil {
		return fmt.Errorf("learn: could not compute gradient: %v", err)
	}
	if err := c.solver.Step(c.train.Model()); err != nil {
		return fmt.Errorf("learn: could not step solver: %v", err)
	}

	if err := c.behaviour.Set(c.train); err != nil {
		return fmt.Errorf("learn: could not update behaviour network: %v",
			err)
	}
	return nil
}

// Loss returns the loss computed by the last call to Learn, before the
// solver step was taken
func (c *CategoricalMLP) Loss() float64 {
	if c.lossVal == nil {
		return 0
	}
	return c.lossVal.Data().(float64)
}

// Close closes the VMs of the policy
func (c *CategoricalMLP) Close() error {
	if err := c.behaviourVM.Close(); err != nil {
		return fmt.Errorf("close: could not close behaviour VM: %v", err)
	}
	if err := c.trainVM.Close(); err != nil {
		return fmt.Errorf("close: could not close training VM: %v", err)
	}
	return nil
}
