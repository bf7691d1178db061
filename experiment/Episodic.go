package experiment

import (
	"fmt"
	"io"
	"log"

	"github.com/samuelfneumann/mastermind/agent"
	env "github.com/samuelfneumann/mastermind/environment"
	"github.com/samuelfneumann/mastermind/experiment/tracker"
	ts "github.com/samuelfneumann/mastermind/timestep"
)

// Episodic is an Experiment that runs an agent for a fixed number of
// episodes, taking an update at the end of each episode
type Episodic struct {
	env.Environment
	agent.Agent
	episodes       int
	currentEpisode int
	trackers       []tracker.Tracker
	reporter       Reporter
	logger         *log.Logger
}

var _ Experiment = &Episodic{}

// NewEpisodic creates and returns a new episodic experiment on a given
// environment with a given agent. The episodes parameter determines
// how many episodes the experiment is run for, and t determines which
// data is saved. If reporter is non-nil, it is sent the result of each
// episode. If logger is nil, nothing is logged.
func NewEpisodic(e env.Environment, a agent.Agent, episodes int,
	t []tracker.Tracker, reporter Reporter,
	logger *log.Logger) (*Episodic, error) {
	if episodes < 1 {
		return nil, fmt.Errorf("newEpisodic: episodes must be positive, "+
			"got %d", episodes)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Episodic{
		Environment: e,
		Agent:       a,
		episodes:    episodes,
		trackers:    t,
		reporter:    reporter,
		logger:      logger,
	}, nil
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (e *Episodic) Register(t tracker.Tracker) {
	e.trackers = append(e.trackers, t)
}

// Episodes returns the number of episodes run so far
func (e *Episodic) Episodes() int {
	return e.currentEpisode
}

// RunEpisode runs a single episode of the experiment. Once the episode
// ends, the agent takes a single update.
func (e *Episodic) RunEpisode() (Result, error) {
	step, err := e.Environment.Reset()
	if err != nil {
		return Result{}, fmt.Errorf("runEpisode: could not reset "+
			"environment: %v", err)
	}
	if err := e.Agent.ObserveFirst(step); err != nil {
		return Result{}, fmt.Errorf("runEpisode: %v", err)
	}
	e.track(step)

	var episodeReturn float64
	for !step.Last() {
		// Select action, step in environment
		action := e.Agent.SelectAction(step)
		step, _, err = e.Environment.Step(action)
		if err != nil {
			return Result{}, fmt.Errorf("runEpisode: could not step "+
				"environment: %v", err)
		}
		episodeReturn += step.Reward

		e.track(step)

		if err := e.Agent.Observe(action, step); err != nil {
			return Result{}, fmt.Errorf("runEpisode: %v", err)
		}
	}

	loss, err := e.Agent.Step()
	if err != nil {
		return Result{}, fmt.Errorf("runEpisode: could not update agent: %v",
			err)
	}
	e.Agent.EndEpisode()
	e.currentEpisode++

	result := Result{
		Episode: e.currentEpisode,
		Return:  episodeReturn,
		Loss:    loss,
		Length:  step.Number,
		Won:     step.TerminalEnd(),
	}
	if e.reporter != nil {
		e.reporter.Episode(result)
	}
	return result, nil
}

// Run runs all remaining episodes of the experiment in training mode
func (e *Episodic) Run() error {
	e.Agent.Train()
	e.logger.Printf("training for %d episodes", e.episodes-e.currentEpisode)

	for e.currentEpisode < e.episodes {
		if _, err := e.RunEpisode(); err != nil {
			return fmt.Errorf("run: episode %d: %v", e.currentEpisode+1, err)
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (e *Episodic) Save() error {
	for _, t := range e.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	e.logger.Printf("saved data of %d trackers", len(e.trackers))
	return nil
}

// track tracks the current timestep by caching its data in each
// Tracker
func (e *Episodic) track(t ts.TimeStep) {
	for _, tr := range e.trackers {
		tr.Track(t)
	}
}
