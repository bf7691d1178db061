package timestep

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSetEnd(t *testing.T) {
	step := New(Last, 1.0, 1.0, mat.NewVecDense(1, nil), 3)
	step.SetEnd(TerminalStateReached)

	if !step.TerminalEnd() {
		t.Errorf("expected terminal end, got %v", step.EndType())
	}
	if step.TimeoutEnd() {
		t.Error("terminal step reported timeout")
	}
}

func TestSetEndPanicsOnMidStep(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic setting end type on a mid step")
		}
	}()

	step := New(Mid, 0.0, 1.0, mat.NewVecDense(1, nil), 1)
	step.SetEnd(Timeout)
}
