package mastermind

import (
	"fmt"
	"math"
)

const (
	DefaultCodeLength int = 4
	DefaultNumColors  int = 6
	DefaultMaxGuesses int = 10
)

// Config describes a game of Mastermind. The env tags name the
// variables a game can be configured by.
type Config struct {
	CodeLength int `env:"CODE_LENGTH"` // Number of pegs in the secret
	NumColors  int `env:"NUM_COLORS"`  // Number of colours each peg can take
	MaxGuesses int `env:"MAX_GUESSES"` // Maximum number of guesses in an episode
}

// DefaultConfig returns the classic game: a code of 4 pegs in 6
// colours cracked within 10 guesses
func DefaultConfig() Config {
	return Config{
		CodeLength: DefaultCodeLength,
		NumColors:  DefaultNumColors,
		MaxGuesses: DefaultMaxGuesses,
	}
}

// Validate checks that the configuration describes a playable game
// whose action space can be indexed by an int
func (c Config) Validate() error {
	if c.CodeLength < 1 {
		return fmt.Errorf("validate: code length must be positive, got %d",
			c.CodeLength)
	}
	if c.NumColors < 1 {
		return fmt.Errorf("validate: number of colours must be positive, "+
			"got %d", c.NumColors)
	}
	if c.MaxGuesses < 1 {
		return fmt.Errorf("validate: maximum guesses must be positive, "+
			"got %d", c.MaxGuesses)
	}

	size := 1
	for i := 0; i < c.CodeLength; i++ {
		if size > math.MaxInt/c.NumColors {
			return fmt.Errorf("validate: %d^%d actions overflow int",
				c.NumColors, c.CodeLength)
		}
		size *= c.NumColors
	}

	if c.MaxGuesses > math.MaxInt/(c.CodeLength+2) {
		return fmt.Errorf("validate: observation size overflows int")
	}

	return nil
}

// ActionSize returns the number of distinct guesses, NumColors to the
// power CodeLength
func (c Config) ActionSize() int {
	size := 1
	for i := 0; i < c.CodeLength; i++ {
		size *= c.NumColors
	}
	return size
}

// SlotSize returns the number of observation features describing a
// single guess: its pegs followed by its black and white scores
func (c Config) SlotSize() int {
	return c.CodeLength + 2
}

// ObservationSize returns the length of observation vectors
func (c Config) ObservationSize() int {
	return c.MaxGuesses * c.SlotSize()
}
