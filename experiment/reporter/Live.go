package reporter

import (
	"fmt"
	"io"

	"github.com/gosuri/uilive"
	"github.com/samuelfneumann/mastermind/experiment"
)

// Live reports the progress of an experiment in place on the terminal.
// The status is redrawn after every episode and shows the latest
// episode alongside the win rate and mean return over the last report
// interval. Every completed interval is also printed permanently, in
// the same form as the Log reporter.
type Live struct {
	writer *uilive.Writer
	every  int

	wins     int
	returns  float64
	episodes int
}

// NewLive returns a new Live reporter drawing to out
func NewLive(out io.Writer, every int) (*Live, error) {
	if every < 1 {
		return nil, fmt.Errorf("newLive: report interval must be positive, "+
			"got %d", every)
	}

	w := uilive.New()
	w.Out = writer(out)

	return &Live{writer: w, every: every}, nil
}

// Episode redraws the status line with r
func (l *Live) Episode(r experiment.Result) {
	l.episodes++
	l.returns += r.Return
	if r.Won {
		l.wins++
	}

	if r.Episode%l.every == 0 {
		fmt.Fprintf(l.writer.Bypass(), "%s\n", episodeLine(r))
		l.flush(r)
		l.wins, l.returns, l.episodes = 0, 0, 0
		return
	}
	l.flush(r)
}

func (l *Live) flush(r experiment.Result) {
	winRate := 100 * float64(l.wins) / float64(l.episodes)
	fmt.Fprintf(l.writer, "Episode %d | length %d | return %.2f | "+
		"win rate %.1f%% | mean return %.2f\n", r.Episode, r.Length,
		r.Return, winRate, l.returns/float64(l.episodes))
	l.writer.Flush()
}

// Benchmark prints the win rate of a benchmark
func (l *Live) Benchmark(b experiment.BenchmarkResult) {
	fmt.Fprintf(l.writer.Bypass(), "%s\n", benchmarkLine(b))
	l.writer.Flush()
}

// Close finishes the live status
func (l *Live) Close() error {
	return l.writer.Flush()
}
