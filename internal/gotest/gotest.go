// Package gotest runs `go test -json` as a runner.Test and translates its
// event stream into result collector entries.
package gotest

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	shellquote "github.com/kballard/go-shellquote"

	"github.com/ariel-frischer/gotestnotify/internal/runner"
)

// DefaultPackages is tested when no package pattern is given
var DefaultPackages = []string{"./..."}

// Package runs the tests of one or more Go packages
type Package struct {
	// GoCmd is the go binary (default "go")
	GoCmd string

	// Patterns are package patterns passed to go test
	Patterns []string

	// Args are extra go test flags placed before the patterns
	Args []string

	// Dir is the working directory
	Dir string

	// Echo receives test output as it is produced; nil discards it
	Echo io.Writer

	factory command.Factory
	logger  log.Logger
}

// NewPackage creates a Package using the process environment
func NewPackage(patterns []string, logger log.Logger) *Package {
	if logger == nil {
		logger = log.NewLogger()
	}
	return &Package{
		GoCmd:    "go",
		Patterns: patterns,
		factory:  command.NewFactory(env.NewRepository()),
		logger:   logger,
	}
}

// ParseArgs splits a shell-quoted flag string such as `-run 'TestA|TestB' -count=1`
func ParseArgs(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	args, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("parsing test args %q: %w", s, err)
	}
	return args, nil
}

// CommandArgs returns the arguments passed to the go binary
func (p *Package) CommandArgs() []string {
	args := []string{"test", "-json"}
	args = append(args, p.Args...)
	if len(p.Patterns) == 0 {
		return append(args, DefaultPackages...)
	}
	return append(args, p.Patterns...)
}

// Run executes go test and records every test in result. A go binary that
// cannot be started or exits non-zero without reporting a failing test is
// recorded as an error.
func (p *Package) Run(result *runner.Result) {
	goCmd := p.GoCmd
	if goCmd == "" {
		goCmd = "go"
	}

	collector := NewCollector(result, p.Echo)
	var stderr bytes.Buffer

	cmd := p.factory.Create(goCmd, p.CommandArgs(), &command.Opts{
		Stdout: collector,
		Stderr: &stderr,
		Dir:    p.Dir,
	})
	p.logger.Debugf("$ %s", cmd.PrintableCommandArgs())

	exitCode, err := cmd.RunAndReturnExitCode()
	collector.Finish()

	if stderr.Len() > 0 && p.Echo != nil {
		io.WriteString(p.Echo, stderr.String())
	}
	if err == nil {
		return
	}

	p.logger.Debugf("go test exited with %d: %v", exitCode, err)
	if exitCode >= 0 && !result.WasSuccessful() {
		return
	}

	details := strings.TrimSpace(strings.Join([]string{stderr.String(), collector.Stray(), err.Error()}, "\n"))
	result.AddError(goCmd+" test", details)
}
