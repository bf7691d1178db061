package policy

import (
	"fmt"

	"github.com/samuelfneumann/mastermind/utils/floatutils"
	"gonum.org/v1/gonum/mat"
)

// LinearSoftmax is a softmax policy whose action scores are a linear
// function of the observation. Gradients are computed in closed form
// and applied by vanilla gradient descent.
//
// Weights start at zero, so the initial policy is uniform.
type LinearSoftmax struct {
	weights      *mat.Dense    // actions x features
	bias         *mat.VecDense // actions
	learningRate float64
}

// NewLinearSoftmax returns a new LinearSoftmax policy
func NewLinearSoftmax(features, actions int,
	learningRate float64) (*LinearSoftmax, error) {
	if features < 1 || actions < 1 {
		return nil, fmt.Errorf("newLinearSoftmax: features (%d) and "+
			"actions (%d) must be positive", features, actions)
	}
	if learningRate <= 0 {
		return nil, fmt.Errorf("newLinearSoftmax: learning rate must be "+
			"positive, got %v", learningRate)
	}

	return &LinearSoftmax{
		weights:      mat.NewDense(actions, features, nil),
		bias:         mat.NewVecDense(actions, nil),
		learningRate: learningRate,
	}, nil
}

// Features returns the length of observations
func (l *LinearSoftmax) Features() int {
	_, features := l.weights.Dims()
	return features
}

// Actions returns the number of actions scored
func (l *LinearSoftmax) Actions() int {
	actions, _ := l.weights.Dims()
	return actions
}

// Scores returns the action scores of an observation
func (l *LinearSoftmax) Scores(obs []float64) ([]float64, error) {
	if len(obs) != l.Features() {
		return nil, fmt.Errorf("scores: expected observation of length %d, "+
			"got %d", l.Features(), len(obs))
	}
	return l.scores(mat.NewVecDense(len(obs), obs)).RawVector().Data, nil
}

func (l *LinearSoftmax) scores(obs mat.Vector) *mat.VecDense {
	scores := mat.NewVecDense(l.Actions(), nil)
	scores.MulVec(l.weights, obs)
	scores.AddVec(scores, l.bias)
	return scores
}

// Loss returns the weighted negative log likelihood of actions that
// Learn minimizes
func (l *LinearSoftmax) Loss(obs []float64, actions []int,
	weights []float64) (float64, error) {
	if err := l.checkBatch(obs, actions, weights); err != nil {
		return 0, fmt.Errorf("loss: %v", err)
	}

	var loss float64
	features := l.Features()
	for i, a := range actions {
		x := mat.NewVecDense(features, obs[i*features:(i+1)*features])
		logProbs := floatutils.LogSoftmax(l.scores(x).RawVector().Data)
		loss -= weights[i] * logProbs[a]
	}
	return loss, nil
}

// Learn takes one gradient descent step on the weighted negative log
// likelihood of actions. The gradient of -w log softmax(s)[a] with
// respect to the scores s is w * (softmax(s) - onehot(a)).
func (l *LinearSoftmax) Learn(obs []float64, actions []int,
	weights []float64) error {
	if err := l.checkBatch(obs, actions, weights); err != nil {
		return fmt.Errorf("learn: %v", err)
	}

	features := l.Features()
	gradW := mat.NewDense(l.Actions(), features, nil)
	gradB := mat.NewVecDense(l.Actions(), nil)

	for i, a := range actions {
		x := mat.NewVecDense(features, obs[i*features:(i+1)*features])
		probs := floatutils.Softmax(l.scores(x).RawVector().Data)

		grad := mat.NewVecDense(len(probs), probs)
		grad.SetVec(a, grad.AtVec(a)-1)
		grad.ScaleVec(weights[i], grad)

		gradW.RankOne(gradW, 1.0, grad, x)
		gradB.AddVec(gradB, grad)
	}

	gradW.Scale(l.learningRate, gradW)
	l.weights.Sub(l.weights, gradW)
	l.bias.AddScaledVec(l.bias, -l.learningRate, gradB)

	return nil
}

func (l *LinearSoftmax) checkBatch(obs []float64, actions []int,
	weights []float64) error {
	if len(weights) != len(actions) {
		return fmt.Errorf("%d weights for %d actions", len(weights),
			len(actions))
	}
	if len(obs) != len(actions)*l.Features() {
		return fmt.Errorf("expected %d observation values for %d actions, "+
			"got %d", len(actions)*l.Features(), len(actions), len(obs))
	}
	for _, a := range actions {
		if a < 0 || a >= l.Actions() {
			return fmt.Errorf("action %d outside [0, %d)", a, l.Actions())
		}
	}
	return nil
}
