package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	shellquote "github.com/kballard/go-shellquote"
)

// commandRunner runs an external program without a shell.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// execRunner runs commands with os/exec
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// processNotifier holds what the command-line backends share: the program
// name, a bounded timeout and error suppression.
type processNotifier struct {
	program string
	runner  commandRunner
	timeout time.Duration
	logger  log.Logger
	now     func() time.Time
}

func newProcessNotifier(program string, timeout time.Duration, logger log.Logger) processNotifier {
	return processNotifier{
		program: program,
		runner:  execRunner{},
		timeout: timeoutOrDefault(timeout),
		logger:  logger,
		now:     time.Now,
	}
}

// run executes the program and logs any failure. It never returns an error:
// a missing binary, a non-zero exit or a timeout only produce a warning.
func (p *processNotifier) run(args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	p.logger.Debugf("[notify] $ %s", shellquote.Join(append([]string{p.program}, args...)...))

	err := p.runner.Run(ctx, p.program, args...)
	if err == nil {
		return
	}
	p.logger.Warnf("[notify] %s: %s", p.program, describeRunError(ctx, err))
}

func describeRunError(ctx context.Context, err error) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "timed out"
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("exit status %d", exitErr.ExitCode())
	}
	if errors.Is(err, exec.ErrNotFound) {
		return "not found in PATH"
	}
	return err.Error()
}

// urgencyName maps a priority onto the freedesktop urgency names
func urgencyName(priority int) string {
	switch {
	case priority < 0:
		return "low"
	case priority > 0:
		return "critical"
	default:
		return "normal"
	}
}
