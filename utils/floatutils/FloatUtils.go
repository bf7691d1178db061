// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// LogSoftmax returns the log probabilities of the softmax distribution
// over scores. The log-sum-exp is computed relative to the maximum
// score so that large scores do not overflow.
func LogSoftmax(scores []float64) []float64 {
	logProbs := make([]float64, len(scores))
	if len(scores) == 0 {
		return logProbs
	}

	copy(logProbs, scores)
	floats.AddConst(-floats.LogSumExp(scores), logProbs)
	return logProbs
}

// Softmax returns the probabilities of the softmax distribution over
// scores
func Softmax(scores []float64) []float64 {
	return Exp(LogSoftmax(scores))
}

// Exp exponentiates s in place and returns it
func Exp(s []float64) []float64 {
	for i := range s {
		s[i] = math.Exp(s[i])
	}
	return s
}
