// Package progress shows a spinner on stderr while tests are running.
package progress

import (
	"os"

	"golang.org/x/term"
)

// TerminalCapabilities describes what the progress output may use
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsUnicode bool
}

// DetectTerminalCapabilities inspects stderr, where the spinner is drawn
func DetectTerminalCapabilities() TerminalCapabilities {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))
	forceASCII := os.Getenv("GOTESTNOTIFY_ASCII") == "1"

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsUnicode: isTTY && !forceASCII,
	}
}

// spinnerSet returns the briandowns/spinner character set index
func spinnerSet(caps TerminalCapabilities) int {
	if caps.SupportsUnicode {
		return 14 // Unicode dots: ⠋ ⠙ ⠹ ⠸ ⠼ ⠴ ⠦ ⠧ ⠇ ⠏
	}
	return 9 // ASCII: | / - \
}
