// Package mastermind implements the Mastermind code-breaking game as an
// environment. Each episode hides a secret code that the agent guesses
// at, one full code per step, receiving black and white peg feedback.
//
// Actions are single indices in [0, NumColors^CodeLength), decoded into
// guesses by Decode. Observations have a fixed length of
// MaxGuesses * (CodeLength + 2): slot i holds the colours of guess i
// divided by NumColors followed by its black and white peg counts
// divided by CodeLength. Slots of guesses not yet made are zero.
package mastermind

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/mastermind/environment"
	ts "github.com/samuelfneumann/mastermind/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Discount is the discount of every TimeStep. Agents apply their own
// discounting.
const Discount float64 = 1.0

// Keys of the peg counts in TimeStep.Info
const (
	InfoBlack string = "black"
	InfoWhite string = "white"
)

// Mastermind implements the Mastermind game
type Mastermind struct {
	*Crack
	starter env.Starter
	config  Config

	secret   Code
	guesses  []Code
	feedback []Feedback

	currentStep ts.TimeStep
}

// New creates a new game of Mastermind, returning the environment and
// the first TimeStep of its first episode. Secrets are sampled
// uniformly at random using src.
func New(c Config, src rand.Source) (*Mastermind, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: invalid config: %v", err)
	}

	bounds := make([]int, c.CodeLength)
	for i := range bounds {
		bounds[i] = c.NumColors
	}
	starter, err := env.NewCategoricalStarter(bounds, src)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: could not create "+
			"secret sampler: %v", err)
	}

	m := &Mastermind{
		Crack:   NewCrack(c.CodeLength, c.MaxGuesses),
		starter: starter,
		config:  c,
	}

	step, err := m.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: could not reset: %v", err)
	}

	return m, step, nil
}

// Reset starts a new episode with a newly sampled secret and no
// guesses made
func (m *Mastermind) Reset() (ts.TimeStep, error) {
	start := m.starter.Start()
	if start.Len() != m.config.CodeLength {
		return ts.TimeStep{}, fmt.Errorf("reset: sampled secret of length "+
			"%d, expected %d", start.Len(), m.config.CodeLength)
	}

	m.secret = make(Code, start.Len())
	for i := range m.secret {
		m.secret[i] = int(start.AtVec(i))
	}
	m.guesses = m.guesses[:0]
	m.feedback = m.feedback[:0]

	m.currentStep = ts.New(ts.First, 0, Discount, m.Observation(), 0)
	return m.currentStep, nil
}

// Step takes a guess in the environment. The action must be a vector
// holding a single integral action index. Step returns an error if the
// action is invalid or if the episode has already ended.
func (m *Mastermind) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if action.Len() != 1 {
		return ts.TimeStep{}, false, fmt.Errorf("step: actions must be "+
			"1-dimensional, got %d dimensions", action.Len())
	}

	a := action.AtVec(0)
	if a != math.Trunc(a) || a < 0 || a >= float64(m.ActionSize()) {
		return ts.TimeStep{}, false, fmt.Errorf("step: action %v is not an "+
			"integer in [0, %d)", a, m.ActionSize())
	}

	guess := Decode(int(a), m.config.CodeLength, m.config.NumColors)
	step, _, err := m.Guess(guess)
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %v", err)
	}

	return step, step.Last(), nil
}

// Guess plays a guess given as a code rather than an action index,
// returning the resulting TimeStep and the feedback for the guess
func (m *Mastermind) Guess(guess Code) (ts.TimeStep, Feedback, error) {
	if m.currentStep.Last() {
		return ts.TimeStep{}, Feedback{}, fmt.Errorf("guess: episode has " +
			"ended, the environment must be reset")
	}
	if err := m.validCode(guess); err != nil {
		return ts.TimeStep{}, Feedback{}, fmt.Errorf("guess: %v", err)
	}

	feedback := Evaluate(m.secret, guess)
	m.guesses = append(m.guesses, guess.Clone())
	m.feedback = append(m.feedback, feedback)

	number := len(m.guesses)
	reward := m.GetReward(feedback, number)
	step := ts.New(ts.Mid, reward, Discount, m.Observation(), number)
	step.Info = map[string]int{
		InfoBlack: feedback.Black,
		InfoWhite: feedback.White,
	}
	m.End(&step, feedback)

	m.currentStep = step
	return step, feedback, nil
}

// Observation encodes the full guess history of the current episode
func (m *Mastermind) Observation() *mat.VecDense {
	obs := mat.NewVecDense(m.ObservationSize(), nil)

	slot := m.config.SlotSize()
	colours := float64(m.config.NumColors)
	pegs := float64(m.config.CodeLength)
	for i, guess := range m.guesses {
		base := i * slot
		for j, colour := range guess {
			obs.SetVec(base+j, float64(colour)/colours)
		}
		obs.SetVec(base+m.config.CodeLength, float64(m.feedback[i].Black)/pegs)
		obs.SetVec(base+m.config.CodeLength+1,
			float64(m.feedback[i].White)/pegs)
	}

	return obs
}

// CurrentTimeStep returns the last TimeStep that occurred in the
// environment
func (m *Mastermind) CurrentTimeStep() ts.TimeStep {
	return m.currentStep
}

// LastFeedback returns the feedback of the most recent guess and
// whether any guess has been made in the current episode
func (m *Mastermind) LastFeedback() (Feedback, bool) {
	if len(m.feedback) == 0 {
		return Feedback{}, false
	}
	return m.feedback[len(m.feedback)-1], true
}

// History returns copies of the guesses made in the current episode
// and their feedback
func (m *Mastermind) History() ([]Code, []Feedback) {
	guesses := make([]Code, len(m.guesses))
	for i := range m.guesses {
		guesses[i] = m.guesses[i].Clone()
	}

	feedback := make([]Feedback, len(m.feedback))
	copy(feedback, m.feedback)

	return guesses, feedback
}

// Guesses returns the number of guesses made in the current episode
func (m *Mastermind) Guesses() int {
	return len(m.guesses)
}

// GuessesLeft returns the number of guesses remaining in the current
// episode
func (m *Mastermind) GuessesLeft() int {
	if m.currentStep.Last() {
		return 0
	}
	return m.stepLimit.Remaining(m.currentStep)
}

// Secret returns a copy of the secret of the current episode
func (m *Mastermind) Secret() Code {
	return m.secret.Clone()
}

// SetSecret replaces the secret of the current episode
func (m *Mastermind) SetSecret(secret Code) error {
	if err := m.validCode(secret); err != nil {
		return fmt.Errorf("setSecret: %v", err)
	}
	m.secret = secret.Clone()
	return nil
}

// Config returns the configuration of the game
func (m *Mastermind) Config() Config {
	return m.config
}

// ActionSize returns the number of distinct actions
func (m *Mastermind) ActionSize() int {
	return m.config.ActionSize()
}

// ObservationSize returns the length of observation vectors
func (m *Mastermind) ObservationSize() int {
	return m.config.ObservationSize()
}

// ActionSpec returns the action specification of the environment
func (m *Mastermind) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0.0})
	upperBound := mat.NewVecDense(1, []float64{float64(m.ActionSize() - 1)})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound, env.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (m *Mastermind) ObservationSpec() env.Spec {
	size := m.ObservationSize()
	shape := mat.NewVecDense(size, nil)
	lowerBound := mat.NewVecDense(size, nil)

	maxColour := float64(m.config.NumColors-1) / float64(m.config.NumColors)
	upper := make([]float64, size)
	for i := range upper {
		if i%m.config.SlotSize() < m.config.CodeLength {
			upper[i] = maxColour
		} else {
			upper[i] = 1.0
		}
	}
	upperBound := mat.NewVecDense(size, upper)

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// DiscountSpec returns the discount specification of the environment
func (m *Mastermind) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{Discount})

	return env.NewSpec(shape, env.Discount, bound, bound, env.Continuous)
}

// RewardSpec returns the reward specification of the environment
func (m *Mastermind) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{m.Min()})
	upperBound := mat.NewVecDense(1, []float64{m.Max()})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}

func (m *Mastermind) validCode(c Code) error {
	if len(c) != m.config.CodeLength {
		return fmt.Errorf("code %v must have length %d", c,
			m.config.CodeLength)
	}
	for _, colour := range c {
		if colour < 0 || colour >= m.config.NumColors {
			return fmt.Errorf("code %v holds colour outside [0, %d)", c,
				m.config.NumColors)
		}
	}
	return nil
}

func (m *Mastermind) String() string {
	return fmt.Sprintf("Mastermind | Code Length: %d  |  Colours: %d  |  "+
		"Max Guesses: %d", m.config.CodeLength, m.config.NumColors,
		m.config.MaxGuesses)
}
