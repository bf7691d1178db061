package agent

import (
	env "github.com/samuelfneumann/mastermind/environment"
	"golang.org/x/exp/rand"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes. Any
	// randomness used by the agent is drawn from src.
	CreateAgent(e env.Environment, src rand.Source) (Agent, error)

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error
}
