package op

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func TestLogSumExp(t *testing.T) {
	data := []float64{
		0, 1, 2,
		1000, 1000, 999,
		-3, 0.5, -0.5,
	}

	g := G.NewGraph()
	logits := G.NewMatrix(g, tensor.Float64, G.WithShape(3, 3),
		G.WithValue(tensor.New(tensor.WithShape(3, 3),
			tensor.WithBacking(append([]float64{}, data...)))))

	lse, err := LogSumExp(logits)
	if err != nil {
		t.Fatalf("could not add log-sum-exp: %v", err)
	}
	var out G.Value
	G.Read(lse, &out)

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		t.Fatalf("could not run graph: %v", err)
	}

	got := out.Data().([]float64)
	if len(got) != 3 {
		t.Fatalf("expected one value per row, got %v", got)
	}
	for i := 0; i < 3; i++ {
		want := floats.LogSumExp(data[i*3 : (i+1)*3])
		if math.Abs(got[i]-want) > 1e-9 {
			t.Errorf("row %d: expected %v, got %v", i, want, got[i])
		}
	}
}

func TestLogSumExpNotMatrix(t *testing.T) {
	g := G.NewGraph()
	v := G.NewVector(g, tensor.Float64, G.WithShape(3), G.WithName("v"))
	if _, err := LogSumExp(v); err == nil {
		t.Error("expected error for vector input")
	}
}
