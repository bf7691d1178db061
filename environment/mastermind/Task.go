package mastermind

import (
	"math"

	env "github.com/samuelfneumann/mastermind/environment"
	ts "github.com/samuelfneumann/mastermind/timestep"
)

const (
	WinReward       float64 = 10.0 // Reward for cracking the code...
	GuessPenalty    float64 = 0.5  // ...less this much per guess taken
	ExhaustedReward float64 = -5.0 // Reward for running out of guesses
	BlackReward     float64 = 0.5  // Shaping reward per black peg
	WhiteReward     float64 = 0.1  // Shaping reward per white peg
	StepReward      float64 = -0.1 // Shaping reward per guess
)

// Crack is the task of finding the secret code within a limited number
// of guesses. Winning is rewarded more the fewer guesses it takes, and
// each guess that neither wins nor exhausts the guesses is rewarded by
// the pegs it scored.
type Crack struct {
	codeLength int
	stepLimit  env.StepLimit
}

// NewCrack returns a new Crack task for codes of length codeLength
// cracked within maxGuesses guesses
func NewCrack(codeLength, maxGuesses int) *Crack {
	return &Crack{
		codeLength: codeLength,
		stepLimit:  env.NewStepLimit(maxGuesses),
	}
}

// Won returns whether the feedback shows the secret was guessed
func (c *Crack) Won(f Feedback) bool {
	return f.Black == c.codeLength
}

// GetReward returns the reward for a guess scoring f on guess number
// step of the episode
func (c *Crack) GetReward(f Feedback, step int) float64 {
	if c.Won(f) {
		return WinReward - float64(step)*GuessPenalty
	}
	if c.stepLimit.Exhausted(step) {
		return ExhaustedReward
	}
	return float64(f.Black)*BlackReward + float64(f.White)*WhiteReward +
		StepReward
}

// End determines whether the episode ends after a guess scoring f. A
// win ends the episode in a terminal state and takes precedence over
// running out of guesses.
func (c *Crack) End(t *ts.TimeStep, f Feedback) bool {
	if c.Won(f) {
		t.StepType = ts.Last
		t.SetEnd(ts.TerminalStateReached)
		return true
	}
	return c.stepLimit.End(t)
}

// Min returns the minimum possible reward in the task
func (c *Crack) Min() float64 {
	slowestWin := WinReward - float64(c.stepLimit.Limit())*GuessPenalty
	return math.Min(math.Min(ExhaustedReward, StepReward), slowestWin)
}

// Max returns the maximum possible reward in the task
func (c *Crack) Max() float64 {
	// A guess one peg short of the secret scores no white pegs
	shaping := float64(c.codeLength-1)*BlackReward + StepReward
	return math.Max(WinReward-GuessPenalty, shaping)
}
