package progress

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/ariel-frischer/gotestnotify/internal/runner"
)

// Spinner wraps a runner.Test and animates a spinner while it runs.
// Without a terminal it runs the test unchanged.
type Spinner struct {
	test   runner.Test
	caps   TerminalCapabilities
	suffix string
	writer io.Writer
}

// Wrap returns test decorated with a spinner
func Wrap(test runner.Test, caps TerminalCapabilities, message string) *Spinner {
	return &Spinner{
		test:   test,
		caps:   caps,
		suffix: " " + message,
		writer: os.Stderr, // stdout carries the report
	}
}

// Run starts the spinner, runs the wrapped test and stops the spinner
// before returning, even if the test panics.
func (s *Spinner) Run(result *runner.Result) {
	if !s.caps.IsTTY {
		s.test.Run(result)
		return
	}

	sp := spinner.New(spinner.CharSets[spinnerSet(s.caps)], 100*time.Millisecond)
	sp.Writer = s.writer
	sp.Suffix = s.suffix
	sp.Start()
	defer sp.Stop()

	s.test.Run(result)
}
