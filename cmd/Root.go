// Package cmd implements the command line interface of mastermind
package cmd

import (
	"fmt"

	"github.com/samuelfneumann/mastermind/config"
	"github.com/spf13/cobra"
)

// RootCommand returns the mastermind command. Defaults are read from
// the first .env file found and from MASTERMIND_* environment
// variables, and flags override both.
func RootCommand() *cobra.Command {
	run := config.Default()
	config.LoadDotEnv(config.DotEnvFiles...)
	overlayErr := run.Overlay(nil)

	cmd := NewRootCommand(run)
	preRun := cmd.PersistentPreRunE
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if overlayErr != nil {
			return overlayErr
		}
		return preRun(cmd, args)
	}
	return cmd
}

// NewRootCommand returns the mastermind command with flags bound to run
func NewRootCommand(run *config.Run) *cobra.Command {
	var benchmark bool

	cmd := &cobra.Command{
		Use:   "mastermind",
		Short: "Train a REINFORCE agent to play Mastermind",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return run.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if benchmark {
				return runBenchmark(cmd, run)
			}
			return runTrain(cmd, run, false)
		},
		SilenceUsage: true,
	}
	AddFlags(cmd, run)
	cmd.Flags().BoolVar(&benchmark, "benchmark", false,
		"Benchmark an untrained agent instead of training")

	cmd.AddCommand(
		TrainCommand(run),
		BenchmarkCommand(run),
	)

	return cmd
}

// AddFlags adds the flags of a run to cmd and its subcommands
func AddFlags(cmd *cobra.Command, run *config.Run) {
	flags := cmd.PersistentFlags()

	flags.IntVar(&run.Episodes, "episodes", run.Episodes,
		"Number of training episodes")
	flags.IntVar(&run.BenchmarkEpisodes, "benchmark-episodes",
		run.BenchmarkEpisodes, "Number of benchmark episodes")
	flags.IntVar(&run.Game.CodeLength, "code-length", run.Game.CodeLength,
		"Length of the secret code")
	flags.IntVar(&run.Game.NumColors, "num-colors", run.Game.NumColors,
		"Number of colours a code position can take")
	flags.IntVar(&run.Game.MaxGuesses, "max-guesses", run.Game.MaxGuesses,
		"Number of guesses per episode")

	flags.StringVar(&run.Policy, "policy", run.Policy,
		fmt.Sprintf("Policy to learn (%v or %v)", config.MLP, config.Softmax))
	flags.IntVar(&run.Hidden, "hidden", run.Hidden,
		"Width of the hidden layers of the MLP policy")
	flags.Float64Var(&run.LearningRate, "lr", run.LearningRate,
		"Learning rate")
	flags.Float64Var(&run.Gamma, "gamma", run.Gamma, "Discount factor")
	flags.StringVar(&run.Optimizer, "optimizer", run.Optimizer,
		"Optimizer of the MLP policy (Adam or Vanilla)")
	flags.StringVar(&run.Init, "init", run.Init,
		"Weight initializer of the MLP policy")

	flags.Uint64Var(&run.Seed, "seed", run.Seed,
		"Random seed, 0 for a time-based seed")
	flags.IntVar(&run.ReportEvery, "report-every", run.ReportEvery,
		"Number of episodes between reports")
	flags.BoolVar(&run.Live, "live", run.Live,
		"Show a live status instead of periodic log lines")
	flags.StringVar(&run.SaveDir, "save-dir", run.SaveDir,
		"Directory to save the run configuration and episode data to")
}
