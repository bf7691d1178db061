package cmd

import (
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/samuelfneumann/mastermind/agent"
	"github.com/samuelfneumann/mastermind/config"
	"github.com/samuelfneumann/mastermind/environment/mastermind"
	"github.com/samuelfneumann/mastermind/experiment"
	"github.com/samuelfneumann/mastermind/experiment/reporter"
	"github.com/samuelfneumann/mastermind/experiment/tracker"
	"github.com/spf13/cobra"
)

// TrainCommand returns the train command
func TrainCommand(run *config.Run) *cobra.Command {
	var eval bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train an agent, reporting progress periodically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(cmd, run, eval)
		},
	}
	cmd.Flags().BoolVar(&eval, "eval", false,
		"Benchmark the agent after training")

	return cmd
}

// BenchmarkCommand returns the benchmark command
func BenchmarkCommand(run *config.Run) *cobra.Command {
	return &cobra.Command{
		Use:   "benchmark",
		Short: "Report the win rate of an untrained agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, run)
		},
	}
}

// setup creates the game and agent of a run from a single random
// source
func setup(run *config.Run) (*mastermind.Mastermind, agent.Config,
	agent.Agent, error) {
	src := run.Source()

	game, _, err := mastermind.New(run.Game, src)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not create game: %v", err)
	}

	agentConfig, err := run.AgentConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	a, err := agentConfig.CreateAgent(game, src)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not create agent: %v", err)
	}

	return game, agentConfig, a, nil
}

func newReporter(cmd *cobra.Command, run *config.Run) (experiment.Reporter,
	error) {
	if run.Live {
		return reporter.NewLive(cmd.OutOrStdout(), run.ReportEvery)
	}
	return reporter.NewLog(log.New(cmd.OutOrStdout(), "", 0), run.ReportEvery)
}

func newLogger(cmd *cobra.Command) *log.Logger {
	return log.New(cmd.ErrOrStderr(), "mastermind: ", log.LstdFlags)
}

func runTrain(cmd *cobra.Command, run *config.Run, eval bool) error {
	game, agentConfig, a, err := setup(run)
	if err != nil {
		return fmt.Errorf("train: %v", err)
	}
	defer closeAgent(a)

	logger := newLogger(cmd)
	logger.Printf("run %v with seed %d", run.ID, run.Seed)

	rep, err := newReporter(cmd, run)
	if err != nil {
		return fmt.Errorf("train: %v", err)
	}
	defer rep.Close()

	var exp experiment.Experiment
	exp, err = experiment.NewEpisodic(game, a, run.Episodes, nil, rep, logger)
	if err != nil {
		return fmt.Errorf("train: %v", err)
	}

	if run.SaveDir != "" {
		if err := run.Record(agentConfig); err != nil {
			return fmt.Errorf("train: %v", err)
		}
		exp.Register(tracker.NewReturn(filepath.Join(run.SaveDir,
			"returns.bin")))
		exp.Register(tracker.NewEpisodeLength(filepath.Join(run.SaveDir,
			"lengths.bin")))
		exp.Register(tracker.NewWins(filepath.Join(run.SaveDir, "wins.bin")))
	}

	if err := exp.Run(); err != nil {
		return fmt.Errorf("train: %v", err)
	}
	if err := exp.Save(); err != nil {
		return fmt.Errorf("train: %v", err)
	}

	if eval {
		if _, err := experiment.Benchmark(game, a, run.BenchmarkEpisodes, rep,
			logger); err != nil {
			return fmt.Errorf("train: %v", err)
		}
	}
	return nil
}

func runBenchmark(cmd *cobra.Command, run *config.Run) error {
	game, _, a, err := setup(run)
	if err != nil {
		return fmt.Errorf("benchmark: %v", err)
	}
	defer closeAgent(a)

	rep, err := newReporter(cmd, run)
	if err != nil {
		return fmt.Errorf("benchmark: %v", err)
	}
	defer rep.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "Running benchmark...")
	_, err = experiment.Benchmark(game, a, run.BenchmarkEpisodes, rep,
		newLogger(cmd))
	if err != nil {
		return fmt.Errorf("benchmark: %v", err)
	}
	return nil
}

func closeAgent(a agent.Agent) {
	if closer, ok := a.(io.Closer); ok {
		closer.Close()
	}
}
