// Package config implements the configuration of training and
// benchmark runs
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samuelfneumann/mastermind/agent"
	"github.com/samuelfneumann/mastermind/agent/reinforce"
	"github.com/samuelfneumann/mastermind/environment/mastermind"
	"github.com/samuelfneumann/mastermind/initwfn"
	"github.com/samuelfneumann/mastermind/network"
	"github.com/samuelfneumann/mastermind/solver"
	"golang.org/x/exp/rand"
)

// Policies that can be learned
const (
	MLP     string = "mlp"
	Softmax string = "softmax"
)

// Run configures a training or benchmark run
type Run struct {
	ID string

	Game mastermind.Config

	Episodes          int `env:"EPISODES"`
	BenchmarkEpisodes int `env:"BENCHMARK_EPISODES"`

	Policy       string  `env:"POLICY"`
	Hidden       int     `env:"HIDDEN"`
	LearningRate float64 `env:"LR"`
	Gamma        float64 `env:"GAMMA"`
	Optimizer    string  `env:"OPTIMIZER"`
	Init         string  `env:"INIT"`

	// A Seed of 0 is replaced by a time-based seed
	Seed uint64 `env:"SEED"`

	ReportEvery int    `env:"REPORT_EVERY"`
	Live        bool   `env:"LIVE"`
	SaveDir     string `env:"SAVE_DIR"`
}

// Default returns the default Run configuration
func Default() *Run {
	return &Run{
		ID:                uuid.New().String(),
		Game:              mastermind.DefaultConfig(),
		Episodes:          1000,
		BenchmarkEpisodes: 100,
		Policy:            MLP,
		Hidden:            128,
		LearningRate:      1e-3,
		Gamma:             0.99,
		Optimizer:         string(solver.Adam),
		Init:              string(initwfn.GlorotU),
		ReportEvery:       100,
	}
}

// Validate returns an error if the Run configuration is invalid
func (r *Run) Validate() error {
	if err := r.Game.Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if r.Episodes < 1 {
		return fmt.Errorf("validate: episodes must be positive, got %d",
			r.Episodes)
	}
	if r.BenchmarkEpisodes < 1 {
		return fmt.Errorf("validate: benchmark episodes must be positive, "+
			"got %d", r.BenchmarkEpisodes)
	}
	if p := strings.ToLower(r.Policy); p != MLP && p != Softmax {
		return fmt.Errorf("validate: policy must be one of %q or %q, got %q",
			MLP, Softmax, r.Policy)
	}
	if r.Hidden < 1 {
		return fmt.Errorf("validate: hidden layer width must be positive, "+
			"got %d", r.Hidden)
	}
	if r.LearningRate <= 0 {
		return fmt.Errorf("validate: learning rate must be positive, got %v",
			r.LearningRate)
	}
	if r.Gamma <= 0 || r.Gamma > 1 {
		return fmt.Errorf("validate: gamma must be in (0, 1], got %v", r.Gamma)
	}
	if _, err := solver.ParseType(r.Optimizer); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if _, err := initwfn.ParseType(r.Init); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if r.ReportEvery < 1 {
		return fmt.Errorf("validate: report interval must be positive, "+
			"got %d", r.ReportEvery)
	}
	return nil
}

// Source returns the random source shared by the environment and the
// agent. If the seed is 0, a time-based seed is chosen and stored.
func (r *Run) Source() rand.Source {
	if r.Seed == 0 {
		r.Seed = uint64(time.Now().UnixNano())
	}
	return rand.NewSource(r.Seed)
}

// AgentConfig returns the configuration of the agent of the run. The
// MLP policy has two hidden layers of ReLU units.
func (r *Run) AgentConfig() (agent.Config, error) {
	switch strings.ToLower(r.Policy) {
	case Softmax:
		return reinforce.LinearSoftmaxConfig{
			LearningRate: r.LearningRate,
			Gamma:        r.Gamma,
		}, nil

	case MLP:
		initType, err := initwfn.ParseType(r.Init)
		if err != nil {
			return nil, fmt.Errorf("agentConfig: %v", err)
		}
		init, err := initwfn.New(initType, 1.0)
		if err != nil {
			return nil, fmt.Errorf("agentConfig: %v", err)
		}

		solverType, err := solver.ParseType(r.Optimizer)
		if err != nil {
			return nil, fmt.Errorf("agentConfig: %v", err)
		}
		s, err := solver.NewDefault(solverType, r.LearningRate, 1)
		if err != nil {
			return nil, fmt.Errorf("agentConfig: %v", err)
		}

		return reinforce.CategoricalMLPConfig{
			PolicyLayers: []int{r.Hidden, r.Hidden},
			PolicyBiases: []bool{true, true},
			PolicyActivations: []*network.Activation{
				network.ReLU(),
				network.ReLU(),
			},
			InitWFn:       init,
			PolicySolver:  s,
			Gamma:         r.Gamma,
			EpisodeCutoff: r.Game.MaxGuesses,
		}, nil
	}

	return nil, fmt.Errorf("agentConfig: no such policy %q", r.Policy)
}

// Record is the saved record of a run
type Record struct {
	Run   *Run
	Agent agent.Config
}

// Record saves the run and the agent configuration as JSON to the file
// config.json in the save directory, creating the directory if needed
func (r *Run) Record(a agent.Config) error {
	if r.SaveDir == "" {
		return fmt.Errorf("record: no save directory")
	}
	if err := os.MkdirAll(r.SaveDir, 0755); err != nil {
		return fmt.Errorf("record: could not create save directory: %v", err)
	}

	data, err := json.MarshalIndent(Record{Run: r, Agent: a}, "", "\t")
	if err != nil {
		return fmt.Errorf("record: could not encode run: %v", err)
	}

	path := filepath.Join(r.SaveDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("record: could not write %v: %v", path, err)
	}
	return nil
}
