// Package policy implements policy functions scoring discrete actions
// and the samplers that draw actions from their softmax distributions
package policy

import (
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// Sampler draws an index from a discrete probability distribution
type Sampler interface {
	Sample(probs []float64) int
}

// CumSumSampler samples by drawing u ~ U[0, 1) and returning the first
// index whose cumulative probability exceeds u
type CumSumSampler struct {
	rng *rand.Rand
}

// NewCumSumSampler returns a new CumSumSampler drawing from src
func NewCumSumSampler(src rand.Source) *CumSumSampler {
	return &CumSumSampler{rng: rand.New(src)}
}

// Sample draws an index from the distribution probs
func (c *CumSumSampler) Sample(probs []float64) int {
	return SearchCumSum(probs, c.rng.Float64())
}

// SearchCumSum returns the first index of probs whose cumulative
// probability exceeds u. If round-off leaves the total probability at
// or below u, the last index is returned.
func SearchCumSum(probs []float64, u float64) int {
	cumSum := make([]float64, len(probs))
	floats.CumSum(cumSum, probs)

	i := sort.Search(len(cumSum), func(i int) bool {
		return cumSum[i] > u
	})
	if i == len(cumSum) {
		return len(cumSum) - 1
	}
	return i
}
