package cli

import (
	"github.com/ariel-frischer/gotestnotify/internal/cli/shared"
)

// Exit codes for the gotestnotify CLI (re-exported from shared)
const (
	// ExitSuccess indicates every test passed
	ExitSuccess = shared.ExitSuccess

	// ExitTestsFailed indicates a failing test, an error or a failed build
	ExitTestsFailed = shared.ExitTestsFailed

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = shared.ExitInvalidArguments

	// ExitMissingDependencies indicates required dependencies are missing
	ExitMissingDependencies = shared.ExitMissingDependency

	// ExitConfigError indicates the configuration could not be loaded
	ExitConfigError = shared.ExitConfigError
)

// NewExitError creates a new exit error with the given code (re-exported from shared).
func NewExitError(code int) error {
	return shared.NewExitError(code)
}

// ExitCode returns the exit code from an error (re-exported from shared).
func ExitCode(err error) int {
	return shared.ExitCode(err)
}
