package environment

import ts "github.com/samuelfneumann/mastermind/timestep"

// StepLimit is an Ender that caps the number of steps in an episode. In
// a guessing game each step is one guess, so the limit is the number
// of guesses allowed before the episode times out.
type StepLimit struct {
	limit int
}

// NewStepLimit returns a StepLimit ending episodes after limit steps
func NewStepLimit(limit int) StepLimit {
	return StepLimit{limit: limit}
}

// Exhausted returns whether step number n uses up the last allowed step
func (s StepLimit) Exhausted(n int) bool {
	return n >= s.limit
}

// Remaining returns the number of steps left in the episode after t,
// never negative
func (s StepLimit) Remaining(t ts.TimeStep) int {
	if left := s.limit - t.Number; left > 0 {
		return left
	}
	return 0
}

// End marks t as the Last step of its episode with a Timeout end if
// it exhausts the limit, returning whether it did
func (s StepLimit) End(t *ts.TimeStep) bool {
	if !s.Exhausted(t.Number) {
		return false
	}
	t.StepType = ts.Last
	t.SetEnd(ts.Timeout)
	return true
}

// Limit returns the number of steps after which episodes end
func (s StepLimit) Limit() int {
	return s.limit
}
