package reinforce

import (
	"fmt"

	"github.com/samuelfneumann/mastermind/agent"
	"github.com/samuelfneumann/mastermind/agent/policy"
	env "github.com/samuelfneumann/mastermind/environment"
	"golang.org/x/exp/rand"
)

// LinearSoftmaxConfig configures a Reinforce agent whose policy is a
// softmax over linear action scores
type LinearSoftmaxConfig struct {
	LearningRate float64
	Gamma        float64
}

// Validate checks a LinearSoftmaxConfig for errors
func (l LinearSoftmaxConfig) Validate() error {
	if l.LearningRate <= 0 {
		return fmt.Errorf("validate: learning rate must be positive, got %v",
			l.LearningRate)
	}
	if l.Gamma <= 0 || l.Gamma > 1 {
		return fmt.Errorf("validate: gamma must be in (0, 1], got %v",
			l.Gamma)
	}
	return nil
}

// CreateAgent creates a new Reinforce agent with a linear softmax
// policy for environment e. Actions are sampled using src.
func (l LinearSoftmaxConfig) CreateAgent(e env.Environment,
	src rand.Source) (agent.Agent, error) {
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("createAgent: %v", err)
	}

	features, actions, err := dims(e)
	if err != nil {
		return nil, fmt.Errorf("createAgent: %v", err)
	}

	pf, err := policy.NewLinearSoftmax(features, actions, l.LearningRate)
	if err != nil {
		return nil, fmt.Errorf("createAgent: could not create policy: %v", err)
	}

	a, err := New(pf, policy.NewCumSumSampler(src), l.Gamma)
	if err != nil {
		return nil, fmt.Errorf("createAgent: %v", err)
	}
	return a, nil
}
