// Package reinforce implements the REINFORCE policy gradient algorithm
// for environments with discrete actions.
//
// A Reinforce agent samples each action from the softmax of the scores
// its policy function assigns to the current observation, recording
// the observation, action, and log probability of the action in a
// trajectory buffer. Rewards are recorded as they are observed. Once
// the episode ends, a single update is taken on the loss
//
//	-Σ_t log π(A_t | S_t) * G_t
//
// where G_t are the discounted returns of the episode, normalized to
// have zero mean and unit standard deviation. The buffer is then
// emptied.
package reinforce

import (
	"fmt"
	"io"
	"os"

	"github.com/samuelfneumann/mastermind/agent"
	"github.com/samuelfneumann/mastermind/agent/policy"
	"github.com/samuelfneumann/mastermind/buffer/trajectory"
	ts "github.com/samuelfneumann/mastermind/timestep"
	"github.com/samuelfneumann/mastermind/utils/floatutils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Reinforce implements the REINFORCE algorithm
type Reinforce struct {
	policy  agent.PolicyFunction
	sampler policy.Sampler
	buffer  *trajectory.Buffer
	gamma   float64

	eval              bool
	completedEpisodes int
}

// New returns a new Reinforce agent which learns the policy function
// pf with discount factor gamma, sampling actions with sampler
func New(pf agent.PolicyFunction, sampler policy.Sampler,
	gamma float64) (*Reinforce, error) {
	if pf == nil {
		return nil, fmt.Errorf("new: policy function cannot be nil")
	}
	if sampler == nil {
		return nil, fmt.Errorf("new: sampler cannot be nil")
	}
	if gamma <= 0 || gamma > 1 {
		return nil, fmt.Errorf("new: gamma must be in (0, 1], got %v", gamma)
	}

	return &Reinforce{
		policy:  pf,
		sampler: sampler,
		buffer:  trajectory.New(pf.Features()),
		gamma:   gamma,
	}, nil
}

// SelectAction samples an action at the observation of timestep t.
// In training mode the decision is recorded in the trajectory buffer.
func (r *Reinforce) SelectAction(t ts.TimeStep) *mat.VecDense {
	obs := t.Observation.RawVector().Data
	scores, err := r.policy.Scores(obs)
	if err != nil {
		panic(fmt.Sprintf("selectAction: could not score actions: %v", err))
	}

	logProbs := floatutils.LogSoftmax(scores)
	probs := make([]float64, len(logProbs))
	copy(probs, logProbs)
	floatutils.Exp(probs)

	action := r.sampler.Sample(probs)

	if !r.eval {
		if err := r.buffer.StoreDecision(obs, action,
			logProbs[action]); err != nil {
			panic(fmt.Sprintf("selectAction: could not store decision: %v",
				err))
		}
	}

	return mat.NewVecDense(1, []float64{float64(action)})
}

// Eval sets the agent into evaluation mode. Actions are still sampled
// from the policy, but nothing is recorded and Step takes no update.
func (r *Reinforce) Eval() {
	r.eval = true
}

// Train sets the agent into training mode
func (r *Reinforce) Train() {
	r.eval = false
}

// IsEval returns whether the agent is in evaluation mode
func (r *Reinforce) IsEval() bool {
	return r.eval
}

// CompletedEpisodes returns the number of updates taken so far
func (r *Reinforce) CompletedEpisodes() int {
	return r.completedEpisodes
}

// ObserveFirst observes and records the first timestep of an episode
func (r *Reinforce) ObserveFirst(t ts.TimeStep) error {
	if !t.First() {
		fmt.Fprintf(os.Stderr, "Warning: ObserveFirst() should only be "+
			"called on the first timestep (current timestep = %d)", t.Number)
	}
	return nil
}

// Observe records the reward of nextStep, which was reached by taking
// the last selected action
func (r *Reinforce) Observe(action mat.Vector, nextStep ts.TimeStep) error {
	if r.eval {
		return nil
	}

	if r.buffer.Rewards() >= r.buffer.Len() {
		return fmt.Errorf("observe: reward observed with no decision to "+
			"reward (%d decisions, %d rewards)", r.buffer.Len(),
			r.buffer.Rewards())
	}
	r.buffer.StoreReward(nextStep.Reward)
	return nil
}

// EndEpisode discards any part of the episode that was not consumed by
// an update
func (r *Reinforce) EndEpisode() {
	r.buffer.Reset()
}

// Step updates the policy from the recorded episode, discounting with
// the agent's discount factor. In evaluation mode Step does nothing
// and returns a loss of 0.
func (r *Reinforce) Step() (float64, error) {
	if r.eval {
		return 0, nil
	}
	return r.Update(r.gamma)
}

// Update takes a single policy gradient step on the recorded episode
// using discount factor gamma and returns the loss of the episode. The
// trajectory buffer is emptied. If no rewards were recorded, Update
// does nothing and returns a loss of 0.
func (r *Reinforce) Update(gamma float64) (float64, error) {
	if r.buffer.Rewards() == 0 {
		r.buffer.Reset()
		return 0, nil
	}

	batch, err := r.buffer.Get(gamma)
	if err != nil {
		return 0, fmt.Errorf("update: %v", err)
	}

	loss := -floats.Dot(batch.LogProbs, batch.Returns)

	err = r.policy.Learn(batch.Observations, batch.Actions, batch.Returns)
	if err != nil {
		return 0, fmt.Errorf("update: could not update policy: %v", err)
	}

	r.completedEpisodes++
	return loss, nil
}

// Close releases the resources held by the policy function, if any
func (r *Reinforce) Close() error {
	if closer, ok := r.policy.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
