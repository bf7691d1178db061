package tracker

import (
	"fmt"

	ts "github.com/samuelfneumann/mastermind/timestep"
)

// Wins tracks whether each episode ended by reaching a terminal state,
// saving 1.0 for episodes that did and 0.0 for episodes that timed out
type Wins struct {
	wins     []float64
	filename string
}

// NewWins returns a new Wins Tracker saving its data to filename
func NewWins(filename string) *Wins {
	return &Wins{filename: filename}
}

// Track records the outcome of an episode when t is its last timestep
func (w *Wins) Track(t ts.TimeStep) {
	if !t.Last() {
		return
	}

	if t.TerminalEnd() {
		w.wins = append(w.wins, 1.0)
	} else {
		w.wins = append(w.wins, 0.0)
	}
}

// Count returns the number of episodes won
func (w *Wins) Count() int {
	var count int
	for _, win := range w.wins {
		if win == 1.0 {
			count++
		}
	}
	return count
}

// Episodes returns the number of finished episodes
func (w *Wins) Episodes() int {
	return len(w.wins)
}

// Save saves the data tracked by the Wins Tracker to disk
func (w *Wins) Save() error {
	if err := save(w.filename, w.wins); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}
