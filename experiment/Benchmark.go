package experiment

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/mastermind/agent"
	env "github.com/samuelfneumann/mastermind/environment"
)

// Benchmark runs an agent in evaluation mode for some number of
// episodes and counts the episodes won, that is, those that ended in
// a terminal state rather than by timing out. No updates are taken.
// The agent is returned to its previous mode afterwards. Agents that
// report their CompletedEpisodes are marked Untrained in the result if
// they have completed none.
//
// If reporter is non-nil, it is sent the result of the benchmark.
func Benchmark(e env.Environment, a agent.Agent, episodes int,
	reporter Reporter, logger *log.Logger) (BenchmarkResult, error) {
	exp, err := NewEpisodic(e, a, episodes, nil, nil, logger)
	if err != nil {
		return BenchmarkResult{}, fmt.Errorf("benchmark: %v", err)
	}

	if !a.IsEval() {
		a.Eval()
		defer a.Train()
	}

	var result BenchmarkResult
	if counter, ok := a.(interface{ CompletedEpisodes() int }); ok {
		result.Untrained = counter.CompletedEpisodes() == 0
	}
	for i := 0; i < episodes; i++ {
		r, err := exp.RunEpisode()
		if err != nil {
			return BenchmarkResult{}, fmt.Errorf("benchmark: episode %d: %v",
				i+1, err)
		}

		result.Episodes++
		if r.Won {
			result.Wins++
		}
	}

	exp.logger.Printf("benchmark won %d of %d episodes", result.Wins,
		result.Episodes)
	if reporter != nil {
		reporter.Benchmark(result)
	}
	return result, nil
}
