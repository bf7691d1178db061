package reinforce

import (
	"fmt"

	"github.com/samuelfneumann/mastermind/agent"
	"github.com/samuelfneumann/mastermind/agent/policy"
	env "github.com/samuelfneumann/mastermind/environment"
	"github.com/samuelfneumann/mastermind/initwfn"
	"github.com/samuelfneumann/mastermind/network"
	"github.com/samuelfneumann/mastermind/solver"
	"golang.org/x/exp/rand"
)

// CategoricalMLPConfig configures a Reinforce agent whose policy is a
// categorical distribution with logits computed by an MLP
type CategoricalMLPConfig struct {
	// Policy neural net
	PolicyLayers      []int
	PolicyBiases      []bool
	PolicyActivations []*network.Activation
	InitWFn           *initwfn.InitWFn
	PolicySolver      *solver.Solver

	Gamma float64

	// EpisodeCutoff is the longest episode the agent can learn from,
	// which sets the batch size of the training network
	EpisodeCutoff int
}

// DefaultCategoricalMLPConfig returns the default configuration for
// learning from episodes of at most cutoff steps: two hidden layers of
// 128 ReLU units initialized with Glorot uniform, trained by Adam with
// a step size of 0.001 and discount factor 0.99
func DefaultCategoricalMLPConfig(cutoff int) (CategoricalMLPConfig, error) {
	init, err := initwfn.NewGlorotU(1.0)
	if err != nil {
		return CategoricalMLPConfig{}, fmt.Errorf("defaultCategoricalMLP"+
			"Config: could not create initializer: %v", err)
	}

	// A batch size of 1 keeps gradients summed over the episode
	s, err := solver.NewDefaultAdam(1e-3, 1)
	if err != nil {
		return CategoricalMLPConfig{}, fmt.Errorf("defaultCategoricalMLP"+
			"Config: could not create solver: %v", err)
	}

	return CategoricalMLPConfig{
		PolicyLayers: []int{128, 128},
		PolicyBiases: []bool{true, true},
		PolicyActivations: []*network.Activation{
			network.ReLU(),
			network.ReLU(),
		},
		InitWFn:       init,
		PolicySolver:  s,
		Gamma:         0.99,
		EpisodeCutoff: cutoff,
	}, nil
}

// Validate checks a CategoricalMLPConfig for errors
func (c CategoricalMLPConfig) Validate() error {
	if len(c.PolicyLayers) != len(c.PolicyBiases) {
		return fmt.Errorf("validate: must specify one bias per policy "+
			"layer\n\twant(%d)\n\thave(%d)", len(c.PolicyLayers),
			len(c.PolicyBiases))
	}
	if len(c.PolicyLayers) != len(c.PolicyActivations) {
		return fmt.Errorf("validate: must specify one activation per "+
			"policy layer\n\twant(%d)\n\thave(%d)", len(c.PolicyLayers),
			len(c.PolicyActivations))
	}
	for i, size := range c.PolicyLayers {
		if size < 1 {
			return fmt.Errorf("validate: policy layer %d must have positive "+
				"size, got %d", i, size)
		}
	}
	if c.InitWFn == nil {
		return fmt.Errorf("validate: no weight initializer specified")
	}
	if c.PolicySolver == nil {
		return fmt.Errorf("validate: no policy solver specified")
	}
	if c.Gamma <= 0 || c.Gamma > 1 {
		return fmt.Errorf("validate: gamma must be in (0, 1], got %v",
			c.Gamma)
	}
	if c.EpisodeCutoff < 1 {
		return fmt.Errorf("validate: episode cutoff must be positive, "+
			"got %d", c.EpisodeCutoff)
	}
	return nil
}

// CreateAgent creates a new Reinforce agent with a categorical MLP
// policy for environment e. Actions are sampled using src.
func (c CategoricalMLPConfig) CreateAgent(e env.Environment,
	src rand.Source) (agent.Agent, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("createAgent: %v", err)
	}

	features, actions, err := dims(e)
	if err != nil {
		return nil, fmt.Errorf("createAgent: %v", err)
	}

	pf, err := policy.NewCategoricalMLP(features, actions, c.EpisodeCutoff,
		c.PolicyLayers, c.PolicyBiases, c.PolicyActivations,
		c.InitWFn.InitWFn(), c.PolicySolver)
	if err != nil {
		return nil, fmt.Errorf("createAgent: could not create policy: %v", err)
	}

	a, err := New(pf, policy.NewCumSumSampler(src), c.Gamma)
	if err != nil {
		return nil, fmt.Errorf("createAgent: %v", err)
	}
	return a, nil
}

// dims returns the number of observation features and discrete
// actions of e
func dims(e env.Environment) (int, int, error) {
	actionSpec := e.ActionSpec()
	if actionSpec.Cardinality != env.Discrete {
		return 0, 0, fmt.Errorf("cannot use non-discrete actions")
	}

	actions := actionSpec.NumActions()
	if actions < 1 {
		return 0, 0, fmt.Errorf("environment has no actions")
	}

	return e.ObservationSpec().Shape.Len(), actions, nil
}
