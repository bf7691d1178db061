package policy

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

func TestSearchCumSum(t *testing.T) {
	probs := []float64{0.2, 0.5, 0.3}
	tests := []struct {
		u    float64
		want int
	}{
		{0.0, 0},
		{0.1999, 0},
		{0.2, 1},
		{0.6999, 1},
		{0.7001, 2},
		{0.9999, 2},
		{1.0, 2}, // round-off past the total
	}

	for _, test := range tests {
		if got := SearchCumSum(probs, test.u); got != test.want {
			t.Errorf("searchCumSum(%v, %v): expected %d, got %d", probs,
				test.u, test.want, got)
		}
	}

	if got := SearchCumSum([]float64{0, 0, 1}, 0); got != 2 {
		t.Errorf("zero probability index %d was sampled", got)
	}
}

func TestCumSumSamplerFrequencies(t *testing.T) {
	probs := []float64{0.1, 0.6, 0.3}
	sampler := NewCumSumSampler(rand.NewSource(3))

	const draws = 20000
	counts := make([]int, len(probs))
	for i := 0; i < draws; i++ {
		counts[sampler.Sample(probs)]++
	}

	for i, p := range probs {
		freq := float64(counts[i]) / draws
		if math.Abs(freq-p) > 0.02 {
			t.Errorf("index %d sampled with frequency %v, expected %v", i,
				freq, p)
		}
	}
}

func TestCumSumSamplerReproducible(t *testing.T) {
	probs := []float64{0.25, 0.25, 0.25, 0.25}
	a := NewCumSumSampler(rand.NewSource(9))
	b := NewCumSumSampler(rand.NewSource(9))

	for i := 0; i < 100; i++ {
		if a.Sample(probs) != b.Sample(probs) {
			t.Fatalf("samplers with equal seeds diverged at draw %d", i)
		}
	}
}
