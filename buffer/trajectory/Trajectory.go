// Package trajectory implements a buffer of the decisions and rewards
// of a single episode, from which on-policy agents compute normalized
// discounted returns
package trajectory

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Epsilon is added to the standard deviation of returns when
// normalizing them
const Epsilon float64 = 1e-8

// Buffer stores, in order, the decisions taken in an episode (the
// observation, the action, and the log probability of the action) and
// the rewards received for them. A Buffer is either empty, accumulating
// decisions and rewards, or consumed by Get, after which it is empty
// again.
type Buffer struct {
	obsSize int

	observations []float64
	actions      []int
	logProbs     []float64
	rewards      []float64
}

// Batch holds the contents of a consumed Buffer
type Batch struct {
	Observations []float64 // Row-major, one row per decision
	Actions      []int
	LogProbs     []float64
	Returns      []float64 // Discounted, normalized returns
}

// New returns a new, empty Buffer for observations of length obsSize
func New(obsSize int) *Buffer {
	return &Buffer{obsSize: obsSize}
}

// StoreDecision records that action was taken with log probability
// logProb at observation obs
func (b *Buffer) StoreDecision(obs []float64, action int,
	logProb float64) error {
	if len(obs) != b.obsSize {
		return fmt.Errorf("storeDecision: illegal obs length \n\twant(%v)"+
			"\n\thave(%v)", b.obsSize, len(obs))
	}

	b.observations = append(b.observations, obs...)
	b.actions = append(b.actions, action)
	b.logProbs = append(b.logProbs, logProb)
	return nil
}

// StoreReward records the reward received for the latest decision
func (b *Buffer) StoreReward(reward float64) {
	b.rewards = append(b.rewards, reward)
}

// Len returns the number of decisions stored
func (b *Buffer) Len() int {
	return len(b.actions)
}

// Rewards returns the number of rewards stored
func (b *Buffer) Rewards() int {
	return len(b.rewards)
}

// Empty returns whether the buffer holds neither decisions nor rewards
func (b *Buffer) Empty() bool {
	return b.Len() == 0 && b.Rewards() == 0
}

// Reset empties the buffer
func (b *Buffer) Reset() {
	b.observations = nil
	b.actions = nil
	b.logProbs = nil
	b.rewards = nil
}

// Get consumes the buffer, returning its decisions along with the
// normalized discounted returns of its rewards. The buffer is empty
// after Get returns, even if it returns an error. An error is
// returned if the number of rewards differs from the number of
// decisions.
func (b *Buffer) Get(gamma float64) (Batch, error) {
	defer b.Reset()

	if b.Len() != b.Rewards() {
		return Batch{}, fmt.Errorf("get: %d rewards stored for %d decisions",
			b.Rewards(), b.Len())
	}

	return Batch{
		Observations: b.observations,
		Actions:      b.actions,
		LogProbs:     b.logProbs,
		Returns:      Normalize(DiscountedReturns(b.rewards, gamma)),
	}, nil
}

// DiscountedReturns returns the discounted return following each
// reward, iterating backward with R <- r + gamma * R
func DiscountedReturns(rewards []float64, gamma float64) []float64 {
	returns := make([]float64, len(rewards))

	var ret float64
	for i := len(rewards) - 1; i >= 0; i-- {
		ret = rewards[i] + gamma*ret
		returns[i] = ret
	}
	return returns
}

// Normalize shifts and scales returns in place to have mean 0 and
// unit sample standard deviation, with Epsilon added to the standard
// deviation. Fewer than two returns are left unchanged.
func Normalize(returns []float64) []float64 {
	if len(returns) < 2 {
		return returns
	}

	mean, std := stat.MeanStdDev(returns, nil)
	floats.AddConst(-mean, returns)
	floats.Scale(1/(std+Epsilon), returns)
	return returns
}
