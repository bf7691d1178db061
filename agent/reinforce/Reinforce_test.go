package reinforce

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/samuelfneumann/mastermind/buffer/trajectory"
	"github.com/samuelfneumann/mastermind/environment/mastermind"
	ts "github.com/samuelfneumann/mastermind/timestep"
	"github.com/samuelfneumann/mastermind/utils/floatutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// recorder is a policy function scoring actions with the first
// observation feature, which records each call to Learn
type recorder struct {
	features, actions int

	learnCalls int
	obs        []float64
	acts       []int
	weights    []float64
}

func (r *recorder) Scores(obs []float64) ([]float64, error) {
	scores := make([]float64, r.actions)
	scores[0] = obs[0]
	return scores, nil
}

func (r *recorder) Learn(obs []float64, actions []int,
	weights []float64) error {
	r.learnCalls++
	r.obs = append([]float64{}, obs...)
	r.acts = append([]int{}, actions...)
	r.weights = append([]float64{}, weights...)
	return nil
}

func (r *recorder) Features() int { return r.features }
func (r *recorder) Actions() int  { return r.actions }

// fixed always samples the same action
type fixed int

func (f fixed) Sample(probs []float64) int { return int(f) }

func newRecording(t *testing.T, action int) (*Reinforce, *recorder) {
	t.Helper()

	pf := &recorder{features: 2, actions: 3}
	r, err := New(pf, fixed(action), 0.9)
	if err != nil {
		t.Fatalf("could not create agent: %v", err)
	}
	return r, pf
}

func step(obs []float64, reward float64, n int) ts.TimeStep {
	t := ts.New(ts.Mid, reward, 1.0, mat.NewVecDense(len(obs), obs), n)
	if n == 0 {
		t.StepType = ts.First
	}
	return t
}

func TestNewInvalid(t *testing.T) {
	pf := &recorder{features: 2, actions: 3}

	if _, err := New(nil, fixed(0), 0.9); err == nil {
		t.Error("expected error for nil policy function")
	}
	if _, err := New(pf, nil, 0.9); err == nil {
		t.Error("expected error for nil sampler")
	}
	for _, gamma := range []float64{0, -0.5, 1.01} {
		if _, err := New(pf, fixed(0), gamma); err == nil {
			t.Errorf("expected error for gamma %v", gamma)
		}
	}
}

func TestUpdateEmpty(t *testing.T) {
	r, pf := newRecording(t, 0)

	loss, err := r.Update(0.99)
	if err != nil {
		t.Fatalf("could not update: %v", err)
	}
	if loss != 0 {
		t.Errorf("expected loss 0 on an empty trajectory, got %v", loss)
	}
	if pf.learnCalls != 0 {
		t.Error("policy updated from an empty trajectory")
	}
	if !r.buffer.Empty() {
		t.Error("buffer not empty after update")
	}
}

func TestUpdate(t *testing.T) {
	r, pf := newRecording(t, 1)

	observations := [][]float64{{0.5, 1}, {-1, 2}, {2, 3}}
	rewards := []float64{-0.1, 0.3, 9.5}

	for i, obs := range observations {
		a := r.SelectAction(step(obs, 0, i))
		if a.Len() != 1 || a.AtVec(0) != 1 {
			t.Fatalf("expected action [1], got %v", mat.Formatted(a.T()))
		}
		if err := r.Observe(a, step(obs, rewards[i], i+1)); err != nil {
			t.Fatalf("could not observe: %v", err)
		}
	}

	wantReturns := trajectory.Normalize(
		trajectory.DiscountedReturns(rewards, 0.5),
	)
	var wantLoss float64
	for i, obs := range observations {
		logProb := floatutils.LogSoftmax([]float64{obs[0], 0, 0})[1]
		wantLoss -= logProb * wantReturns[i]
	}

	loss, err := r.Update(0.5)
	if err != nil {
		t.Fatalf("could not update: %v", err)
	}

	if math.Abs(loss-wantLoss) > 1e-12 {
		t.Errorf("expected loss %v, got %v", wantLoss, loss)
	}
	if pf.learnCalls != 1 {
		t.Fatalf("expected 1 policy update, got %d", pf.learnCalls)
	}
	if diff := cmp.Diff([]float64{0.5, 1, -1, 2, 2, 3}, pf.obs); diff != "" {
		t.Errorf("observations mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 1, 1}, pf.acts); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantReturns, pf.weights,
		cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("returns mismatch (-want +got):\n%s", diff)
	}
	if !r.buffer.Empty() {
		t.Error("buffer not empty after update")
	}
	if r.CompletedEpisodes() != 1 {
		t.Errorf("expected 1 completed episode, got %d", r.CompletedEpisodes())
	}
}

func TestStepUsesGamma(t *testing.T) {
	r, pf := newRecording(t, 0)

	obs := []float64{0, 0}
	for i := 0; i < 3; i++ {
		a := r.SelectAction(step(obs, 0, i))
		if err := r.Observe(a, step(obs, 1, i+1)); err != nil {
			t.Fatalf("could not observe: %v", err)
		}
	}

	if _, err := r.Step(); err != nil {
		t.Fatalf("could not step: %v", err)
	}

	want := trajectory.Normalize(
		trajectory.DiscountedReturns([]float64{1, 1, 1}, 0.9),
	)
	if diff := cmp.Diff(want, pf.weights,
		cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("returns mismatch (-want +got):\n%s", diff)
	}
}

func TestEvalRecordsNothing(t *testing.T) {
	r, pf := newRecording(t, 2)
	r.Eval()
	if !r.IsEval() {
		t.Fatal("agent not in evaluation mode")
	}

	obs := []float64{1, 1}
	a := r.SelectAction(step(obs, 0, 0))
	if err := r.Observe(a, step(obs, 1, 1)); err != nil {
		t.Fatalf("could not observe: %v", err)
	}
	if !r.buffer.Empty() {
		t.Errorf("evaluation recorded %d decisions and %d rewards",
			r.buffer.Len(), r.buffer.Rewards())
	}

	loss, err := r.Step()
	if err != nil || loss != 0 || pf.learnCalls != 0 {
		t.Errorf("evaluation step updated the policy (loss %v, err %v)",
			loss, err)
	}

	r.Train()
	if r.IsEval() {
		t.Error("agent not in training mode")
	}
}

func TestObserveWithoutDecision(t *testing.T) {
	r, _ := newRecording(t, 0)

	obs := []float64{0, 0}
	if err := r.Observe(nil, step(obs, 1, 1)); err == nil {
		t.Error("expected error observing a reward before any decision")
	}

	a := r.SelectAction(step(obs, 0, 0))
	if err := r.Observe(a, step(obs, 1, 1)); err != nil {
		t.Fatalf("could not observe: %v", err)
	}
	if err := r.Observe(a, step(obs, 1, 2)); err == nil {
		t.Error("expected error observing two rewards for one decision")
	}
}

func TestEndEpisodeResets(t *testing.T) {
	r, _ := newRecording(t, 0)

	r.SelectAction(step([]float64{0, 0}, 0, 0))
	r.EndEpisode()
	if !r.buffer.Empty() {
		t.Error("buffer not empty after the episode ended")
	}
}

// play runs episodes of a game with a linear softmax agent trained by
// REINFORCE, returning the actions taken
func play(t *testing.T, seed uint64, episodes int) []int {
	t.Helper()

	src := rand.NewSource(seed)
	c := mastermind.Config{CodeLength: 2, NumColors: 3, MaxGuesses: 5}
	game, step, err := mastermind.New(c, src)
	if err != nil {
		t.Fatalf("could not create game: %v", err)
	}

	a, err := LinearSoftmaxConfig{LearningRate: 0.05, Gamma: 0.99}.
		CreateAgent(game, src)
	if err != nil {
		t.Fatalf("could not create agent: %v", err)
	}

	var actions []int
	for i := 0; i < episodes; i++ {
		if i > 0 {
			if step, err = game.Reset(); err != nil {
				t.Fatalf("could not reset: %v", err)
			}
		}
		if err := a.ObserveFirst(step); err != nil {
			t.Fatalf("could not observe first step: %v", err)
		}

		for !step.Last() {
			action := a.SelectAction(step)
			actions = append(actions, int(action.AtVec(0)))

			if step, _, err = game.Step(action); err != nil {
				t.Fatalf("could not step game: %v", err)
			}
			if err := a.Observe(action, step); err != nil {
				t.Fatalf("could not observe: %v", err)
			}
		}

		if _, err := a.Step(); err != nil {
			t.Fatalf("could not update: %v", err)
		}
		a.EndEpisode()
	}
	return actions
}

func TestSeededRunsReproducible(t *testing.T) {
	first := play(t, 3, 20)
	second := play(t, 3, 20)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("seeded runs diverged (-first +second):\n%s", diff)
	}
}

func TestCategoricalMLPConfig(t *testing.T) {
	c := mastermind.Config{CodeLength: 2, NumColors: 3, MaxGuesses: 4}
	src := rand.NewSource(5)
	game, first, err := mastermind.New(c, src)
	if err != nil {
		t.Fatalf("could not create game: %v", err)
	}

	config, err := DefaultCategoricalMLPConfig(c.MaxGuesses)
	if err != nil {
		t.Fatalf("could not create config: %v", err)
	}
	config.PolicyLayers = []int{16, 16}

	bad := config
	bad.PolicyBiases = []bool{true}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for mismatched biases")
	}
	bad = config
	bad.Gamma = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for gamma 0")
	}
	bad = config
	bad.EpisodeCutoff = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for episode cutoff 0")
	}

	a, err := config.CreateAgent(game, src)
	if err != nil {
		t.Fatalf("could not create agent: %v", err)
	}
	defer a.(*Reinforce).Close()

	step := first
	for !step.Last() {
		action := a.SelectAction(step)
		if v := action.AtVec(0); v < 0 || v >= float64(c.ActionSize()) {
			t.Fatalf("action %v outside [0, %d)", v, c.ActionSize())
		}
		if step, _, err = game.Step(action); err != nil {
			t.Fatalf("could not step game: %v", err)
		}
		if err := a.Observe(action, step); err != nil {
			t.Fatalf("could not observe: %v", err)
		}
	}

	loss, err := a.Step()
	if err != nil {
		t.Fatalf("could not update: %v", err)
	}
	if math.IsNaN(loss) || math.IsInf(loss, 0) {
		t.Errorf("expected finite loss, got %v", loss)
	}
}
