package policy

import (
	"math"
	"testing"

	"github.com/samuelfneumann/mastermind/network"
	"github.com/samuelfneumann/mastermind/utils/floatutils"
	G "gorgonia.org/gorgonia"
)

func newTestCategoricalMLP(t *testing.T) *CategoricalMLP {
	t.Helper()

	solver := G.NewAdamSolver(G.WithLearnRate(1e-2), G.WithBatchSize(1))
	pol, err := NewCategoricalMLP(4, 3, 3, []int{8}, []bool{true},
		[]*network.Activation{network.ReLU()}, G.GlorotU(1.0), solver)
	if err != nil {
		t.Fatalf("could not create policy: %v", err)
	}
	t.Cleanup(func() { pol.Close() })

	return pol
}

func TestCategoricalMLPScores(t *testing.T) {
	pol := newTestCategoricalMLP(t)

	obs := []float64{0.1, 0.2, 0.3, 0.4}
	scores, err := pol.Scores(obs)
	if err != nil {
		t.Fatalf("could not score: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}

	again, _ := pol.Scores(obs)
	for i := range scores {
		if scores[i] != again[i] {
			t.Fatalf("scores changed without learning: %v -> %v", scores, again)
		}
	}

	if _, err := pol.Scores([]float64{1, 2}); err == nil {
		t.Error("expected error scoring short observation")
	}
}

func TestCategoricalMLPLearn(t *testing.T) {
	pol := newTestCategoricalMLP(t)

	obs := []float64{
		0.5, 0.0, 1.0, 0.25,
		0.0, 1.0, 0.5, 0.75,
	}
	actions := []int{1, 1}
	weights := []float64{1.0, 2.0}

	// The loss of the first step is computed with the initial weights
	var want float64
	for i, a := range actions {
		scores, _ := pol.Scores(obs[i*4 : (i+1)*4])
		want -= weights[i] * floatutils.LogSoftmax(scores)[a]
	}

	before, _ := pol.Scores(obs[:4])
	for i := 0; i < 50; i++ {
		if err := pol.Learn(obs, actions, weights); err != nil {
			t.Fatalf("could not learn: %v", err)
		}
		if i == 0 && math.Abs(pol.Loss()-want) > 1e-6 {
			t.Errorf("expected graph loss %v, got %v", want, pol.Loss())
		}
	}
	after, _ := pol.Scores(obs[:4])

	if p, q := floatutils.Softmax(before)[1], floatutils.Softmax(after)[1]; q <= p {
		t.Errorf("reinforced action probability did not increase: %v -> %v",
			p, q)
	}
}

func TestCategoricalMLPLearnInvalid(t *testing.T) {
	pol := newTestCategoricalMLP(t)

	obs := make([]float64, 4*4)
	if err := pol.Learn(obs, []int{0, 0, 0, 0}, []float64{1, 1, 1, 1}); err == nil {
		t.Error("expected error learning from more samples than the batch")
	}
	if err := pol.Learn(obs[:4], []int{3}, []float64{1}); err == nil {
		t.Error("expected error learning out of range action")
	}
}
