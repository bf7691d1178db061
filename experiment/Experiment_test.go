package experiment

import (
	"testing"

	"github.com/samuelfneumann/mastermind/agent/reinforce"
	"github.com/samuelfneumann/mastermind/environment/mastermind"
	"github.com/samuelfneumann/mastermind/experiment/tracker"
	ts "github.com/samuelfneumann/mastermind/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// enumerator guesses actions 0, 1, 2, ... in order each episode
type enumerator struct {
	next int
	eval bool

	firsts, observed, steps, ends int
	evalSteps                     int
}

func (e *enumerator) SelectAction(t ts.TimeStep) *mat.VecDense {
	a := mat.NewVecDense(1, []float64{float64(e.next)})
	e.next++
	return a
}

func (e *enumerator) ObserveFirst(t ts.TimeStep) error {
	e.firsts++
	e.next = 0
	return nil
}

func (e *enumerator) Observe(a mat.Vector, t ts.TimeStep) error {
	e.observed++
	return nil
}

func (e *enumerator) Step() (float64, error) {
	e.steps++
	if e.eval {
		e.evalSteps++
	}
	return float64(e.steps), nil
}

func (e *enumerator) EndEpisode()  { e.ends++ }
func (e *enumerator) Eval()        { e.eval = true }
func (e *enumerator) Train()       { e.eval = false }
func (e *enumerator) IsEval() bool { return e.eval }

type recordingReporter struct {
	results    []Result
	benchmarks []BenchmarkResult
}

func (r *recordingReporter) Episode(res Result)          { r.results = append(r.results, res) }
func (r *recordingReporter) Benchmark(b BenchmarkResult) { r.benchmarks = append(r.benchmarks, b) }
func (r *recordingReporter) Close() error                { return nil }

func newGame(t *testing.T, c mastermind.Config, seed uint64) *mastermind.Mastermind {
	t.Helper()

	game, _, err := mastermind.New(c, rand.NewSource(seed))
	if err != nil {
		t.Fatalf("could not create game: %v", err)
	}
	return game
}

func TestEpisodicRun(t *testing.T) {
	c := mastermind.Config{CodeLength: 2, NumColors: 3, MaxGuesses: 4}
	game := newGame(t, c, 1)
	a := &enumerator{}
	rep := &recordingReporter{}
	lengths := tracker.NewEpisodeLength("")

	exp, err := NewEpisodic(game, a, 5, []tracker.Tracker{lengths}, rep, nil)
	if err != nil {
		t.Fatalf("could not create experiment: %v", err)
	}
	if err := exp.Run(); err != nil {
		t.Fatalf("could not run experiment: %v", err)
	}

	if a.steps != 5 || a.ends != 5 || a.firsts != 5 {
		t.Errorf("expected one update per episode over 5 episodes, got %d "+
			"updates, %d ends, %d first steps", a.steps, a.ends, a.firsts)
	}
	if len(rep.results) != 5 {
		t.Fatalf("expected 5 reported episodes, got %d", len(rep.results))
	}

	var totalLength int
	for i, res := range rep.results {
		if res.Episode != i+1 {
			t.Errorf("expected episode %d, got %d", i+1, res.Episode)
		}
		if res.Length < 1 || res.Length > c.MaxGuesses {
			t.Errorf("episode %d has length %d", res.Episode, res.Length)
		}
		if res.Loss != float64(i+1) {
			t.Errorf("episode %d reported loss %v of update %v", res.Episode,
				res.Loss, i+1)
		}
		if res.Length < c.MaxGuesses && !res.Won {
			t.Errorf("episode %d ended early without a win", res.Episode)
		}
		totalLength += res.Length
	}

	if a.observed != totalLength {
		t.Errorf("observed %d steps of %d", a.observed, totalLength)
	}
	if got := lengths.Lengths(); len(got) != 5 {
		t.Errorf("tracker recorded %d episodes", len(got))
	}
	if exp.Episodes() != 5 {
		t.Errorf("expected 5 episodes run, got %d", exp.Episodes())
	}
}

func TestRegisterMidRun(t *testing.T) {
	c := mastermind.Config{CodeLength: 2, NumColors: 3, MaxGuesses: 4}
	var exp Experiment
	exp, err := NewEpisodic(newGame(t, c, 3), &enumerator{}, 4, nil, nil, nil)
	if err != nil {
		t.Fatalf("could not create experiment: %v", err)
	}

	if _, err := exp.RunEpisode(); err != nil {
		t.Fatalf("could not run episode: %v", err)
	}
	wins := tracker.NewWins("")
	exp.Register(wins)
	if err := exp.Run(); err != nil {
		t.Fatalf("could not run experiment: %v", err)
	}

	if got := wins.Episodes(); got != 3 {
		t.Errorf("tracker registered after one episode saw %d of 3 "+
			"remaining episodes", got)
	}
}

func TestNewEpisodicInvalid(t *testing.T) {
	game := newGame(t, mastermind.DefaultConfig(), 1)
	if _, err := NewEpisodic(game, &enumerator{}, 0, nil, nil, nil); err == nil {
		t.Error("expected error for 0 episodes")
	}
}

func TestBenchmark(t *testing.T) {
	// Enumerating every action always finds the secret
	c := mastermind.Config{CodeLength: 1, NumColors: 3, MaxGuesses: 3}
	game := newGame(t, c, 2)
	a := &enumerator{}
	rep := &recordingReporter{}

	result, err := Benchmark(game, a, 20, rep, nil)
	if err != nil {
		t.Fatalf("could not benchmark: %v", err)
	}

	if result.Episodes != 20 || result.Wins != 20 {
		t.Errorf("expected 20 wins in 20 episodes, got %+v", result)
	}
	if result.Untrained {
		t.Error("agent without an update count marked untrained")
	}
	if result.WinRate() != 100 {
		t.Errorf("expected win rate 100, got %v", result.WinRate())
	}
	if a.evalSteps != a.steps {
		t.Errorf("%d of %d updates requested outside evaluation mode",
			a.steps-a.evalSteps, a.steps)
	}
	if a.IsEval() {
		t.Error("agent left in evaluation mode")
	}
	if len(rep.benchmarks) != 1 || rep.benchmarks[0] != result {
		t.Errorf("expected benchmark to be reported once, got %v",
			rep.benchmarks)
	}
}

func TestBenchmarkLosing(t *testing.T) {
	// Guessing only one of four colours wins about a quarter of the time
	c := mastermind.Config{CodeLength: 1, NumColors: 4, MaxGuesses: 1}
	game := newGame(t, c, 3)

	result, err := Benchmark(game, &enumerator{}, 200, nil, nil)
	if err != nil {
		t.Fatalf("could not benchmark: %v", err)
	}
	if result.Wins == 0 || result.Wins == result.Episodes {
		t.Errorf("expected some wins and some losses, got %+v", result)
	}
}

func TestTrainReinforce(t *testing.T) {
	c := mastermind.Config{CodeLength: 2, NumColors: 3, MaxGuesses: 5}
	src := rand.NewSource(7)
	game, _, err := mastermind.New(c, src)
	if err != nil {
		t.Fatalf("could not create game: %v", err)
	}

	a, err := reinforce.LinearSoftmaxConfig{LearningRate: 0.01, Gamma: 0.99}.
		CreateAgent(game, src)
	if err != nil {
		t.Fatalf("could not create agent: %v", err)
	}

	before, err := Benchmark(game, a, 5, nil, nil)
	if err != nil {
		t.Fatalf("could not benchmark: %v", err)
	}
	if !before.Untrained {
		t.Error("benchmark before training not marked untrained")
	}

	returns := tracker.NewReturn("")
	exp, err := NewEpisodic(game, a, 30, []tracker.Tracker{returns}, nil, nil)
	if err != nil {
		t.Fatalf("could not create experiment: %v", err)
	}
	if err := exp.Run(); err != nil {
		t.Fatalf("could not run experiment: %v", err)
	}

	if n := a.(*reinforce.Reinforce).CompletedEpisodes(); n != 30 {
		t.Errorf("expected 30 updates, got %d", n)
	}
	if n := len(returns.Returns()); n != 30 {
		t.Errorf("expected 30 tracked returns, got %d", n)
	}

	after, err := Benchmark(game, a, 10, nil, nil)
	if err != nil {
		t.Fatalf("could not benchmark: %v", err)
	}
	if after.Untrained {
		t.Error("benchmark after training marked untrained")
	}
	if n := a.(*reinforce.Reinforce).CompletedEpisodes(); n != 30 {
		t.Errorf("benchmark updated the agent: %d updates", n)
	}
}
