package reporter

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/samuelfneumann/mastermind/experiment"
)

func results(n int) []experiment.Result {
	var r []experiment.Result
	for i := 1; i <= n; i++ {
		r = append(r, experiment.Result{
			Episode: i,
			Return:  float64(i) - 0.5,
			Loss:    0.25 * float64(i),
			Length:  i,
			Won:     i%2 == 0,
		})
	}
	return r
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	rep, err := NewLog(log.New(&buf, "", 0), 2)
	if err != nil {
		t.Fatalf("could not create reporter: %v", err)
	}

	for _, r := range results(5) {
		rep.Episode(r)
	}
	rep.Benchmark(experiment.BenchmarkResult{Episodes: 8, Wins: 2})
	rep.Benchmark(experiment.BenchmarkResult{Episodes: 5, Wins: 1,
		Untrained: true})
	if err := rep.Close(); err != nil {
		t.Fatalf("could not close reporter: %v", err)
	}

	want := "Episode 2, Reward: 1.50, Loss: 0.5000\n" +
		"Episode 4, Reward: 3.50, Loss: 1.0000\n" +
		"Win rate: 25.0%\n" +
		"Win rate (untrained): 20.0%\n"
	if got := buf.String(); got != want {
		t.Errorf("expected output\n%s\ngot\n%s", want, got)
	}
}

func TestLive(t *testing.T) {
	var buf bytes.Buffer
	rep, err := NewLive(&buf, 2)
	if err != nil {
		t.Fatalf("could not create reporter: %v", err)
	}

	for _, r := range results(3) {
		rep.Episode(r)
	}
	rep.Benchmark(experiment.BenchmarkResult{Episodes: 4, Wins: 1})
	if err := rep.Close(); err != nil {
		t.Fatalf("could not close reporter: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Episode 2, Reward: 1.50, Loss: 0.5000",
		"Episode 3 | length 3 | return 2.50",
		"win rate 50.0%",
		"Win rate: 25.0%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestInvalidInterval(t *testing.T) {
	if _, err := NewLog(log.New(&bytes.Buffer{}, "", 0), 0); err == nil {
		t.Error("expected error for log report interval 0")
	}
	if _, err := NewLive(nil, -1); err == nil {
		t.Error("expected error for live report interval -1")
	}
}
