// Package experiment implements functionality for running an experiment
package experiment

import (
	"github.com/samuelfneumann/mastermind/experiment/tracker"
)

// Experiment outlines structs that can run experiments. Experiments
// send each environment TimeStep to their Trackers, which cache the
// data in RAM to be later saved to disk with Save(). This is usually
// performed after an experiment has been run. The Run() method runs
// all episodes of the experiment, and the RunEpisode() method runs a
// single episode.
type Experiment interface {
	Run() error
	RunEpisode() (Result, error)

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)
}

// Result summarizes a single episode of an experiment
type Result struct {
	Episode int // Starting at 1
	Return  float64
	Loss    float64
	Length  int
	Won     bool
}

// BenchmarkResult summarizes the episodes of a benchmark
type BenchmarkResult struct {
	Episodes int
	Wins     int

	// Untrained is set when the agent had taken no updates before the
	// benchmark started
	Untrained bool
}

// WinRate returns the percentage of benchmark episodes won
func (b BenchmarkResult) WinRate() float64 {
	if b.Episodes == 0 {
		return 0
	}
	return 100 * float64(b.Wins) / float64(b.Episodes)
}

// Reporter reports the progress of an experiment as it runs
type Reporter interface {
	Episode(r Result)
	Benchmark(b BenchmarkResult)
	Close() error
}
