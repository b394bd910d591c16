// Package runner executes a test synchronously, writes the text report and
// sends one notification summarising the outcome.
package runner

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ariel-frischer/gotestnotify/internal/notify"
)

// Runner runs tests and notifies about the outcome. It holds exactly one
// Notifier, fixed at construction.
type Runner struct {
	stream   io.Writer
	notifier notify.Notifier
	now      func() time.Time
}

// New creates a Runner that reports to stream and notifies through notifier.
// A nil stream writes to stdout and a nil notifier discards notifications.
func New(stream io.Writer, notifier notify.Notifier) *Runner {
	if stream == nil {
		stream = os.Stdout
	}
	if notifier == nil {
		notifier = notify.NullNotifier{}
	}
	return &Runner{
		stream:   stream,
		notifier: notifier,
		now:      time.Now,
	}
}

// SetClock replaces the time source used to measure the run
func (r *Runner) SetClock(now func() time.Time) {
	r.now = now
}

// Notifier returns the notifier the runner was built with
func (r *Runner) Notifier() notify.Notifier {
	return r.notifier
}

// Run runs test against a fresh collector and returns it. Panics raised by
// the test are not recovered.
func (r *Runner) Run(test Test) *Result {
	result := NewResult()

	start := r.now()
	test.Run(result)
	elapsed := r.now().Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}

	outcome := OutcomeOf(result, elapsed)

	result.PrintErrors(r.stream)
	fmt.Fprintln(r.stream, Separator2)
	fmt.Fprintln(r.stream, RanLine(outcome.TestsRun, outcome.Elapsed))
	fmt.Fprintln(r.stream)
	fmt.Fprintln(r.stream, outcome.StatusLine())

	r.notifier.Notify(Summarize(outcome))
	return result
}
