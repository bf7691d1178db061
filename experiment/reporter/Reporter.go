// Package reporter implements experiment.Reporters, which print the
// progress of an experiment to the console
package reporter

import (
	"fmt"
	"io"
	"log"

	"github.com/samuelfneumann/mastermind/experiment"
)

// Log reports every few episodes with a line of the form
//
//	Episode N, Reward: R, Loss: L
//
// and reports benchmarks as
//
//	Win rate: X%
type Log struct {
	logger *log.Logger
	every  int
}

// NewLog returns a new Log reporter writing to logger every every
// episodes
func NewLog(logger *log.Logger, every int) (*Log, error) {
	if every < 1 {
		return nil, fmt.Errorf("newLog: report interval must be positive, "+
			"got %d", every)
	}
	return &Log{logger: logger, every: every}, nil
}

// Episode reports r if its episode is a multiple of the report interval
func (l *Log) Episode(r experiment.Result) {
	if r.Episode%l.every != 0 {
		return
	}
	l.logger.Println(episodeLine(r))
}

// Benchmark reports the win rate of a benchmark
func (l *Log) Benchmark(b experiment.BenchmarkResult) {
	l.logger.Println(benchmarkLine(b))
}

// Close implements the experiment.Reporter interface
func (l *Log) Close() error {
	return nil
}

func episodeLine(r experiment.Result) string {
	return fmt.Sprintf("Episode %d, Reward: %.2f, Loss: %.4f", r.Episode,
		r.Return, r.Loss)
}

func benchmarkLine(b experiment.BenchmarkResult) string {
	if b.Untrained {
		return fmt.Sprintf("Win rate (untrained): %.1f%%", b.WinRate())
	}
	return fmt.Sprintf("Win rate: %.1f%%", b.WinRate())
}

// writer returns a writer discarding everything if w is nil
func writer(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
