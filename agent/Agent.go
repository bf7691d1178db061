// Package agent defines an agent interface
package agent

import (
	ts "github.com/samuelfneumann/mastermind/timestep"
	"gonum.org/v1/gonum/mat"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns weights, and a Policy
// which chooses actions in each state. The Policy chooses which actions
// are taken, and the Learner uses these actions to update the Policy.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how weights are
// updated.
type Learner interface {
	// Step performs a single update to the learner, returning the loss
	// of the update
	Step() (float64, error)

	// Observe records that an action lead to some timestep
	Observe(action mat.Vector, nextStep ts.TimeStep) error

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(ts.TimeStep) error

	// EndEpisode performs cleanup at the end of an episode
	EndEpisode()
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. For a given agent, the
// Policy and Learner should have pointers to the same weights so that
// any changes the learner makes to the weights are reflected in the
// actions the Policy chooses
type Policy interface {
	SelectAction(t ts.TimeStep) *mat.VecDense
	Eval()        // Set policy to evaluation mode
	Train()       // Set policy to training mode
	IsEval() bool // Indicates if in evaluation mode
}

// PolicyFunction is a trainable function scoring each discrete action
// of an observation. The scores are unnormalized log probabilities of
// a softmax policy.
type PolicyFunction interface {
	// Scores returns one score per action for a single observation
	Scores(obs []float64) ([]float64, error)

	// Learn takes one optimizer step on the loss
	//
	//	-Σ_i weights[i] * log softmax(Scores(obs_i))[actions[i]]
	//
	// where obs holds len(actions) observations laid out row by row.
	Learn(obs []float64, actions []int, weights []float64) error

	// Features returns the length of a single observation
	Features() int

	// Actions returns the number of actions scored
	Actions() int
}
