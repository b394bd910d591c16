package notify

import (
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
)

const osascriptProgram = "osascript"

// DefaultOsascriptTimeout replaces DefaultTimeout for osascript. A cold
// start of the scripting runtime regularly takes over a second.
const DefaultOsascriptTimeout = 3 * time.Second

// osascriptLines reads title and message from argv so neither is ever
// interpolated into the script source.
var osascriptLines = []string{
	"on run argv",
	"display notification (item 2 of argv) with title (item 1 of argv)",
	"end run",
}

// OsascriptNotifier posts to macOS Notification Center. AppleScript has no
// icon, priority or sticky controls, so those fields are ignored.
type OsascriptNotifier struct {
	processNotifier
}

// NewOsascriptNotifier creates an osascript backend
func NewOsascriptNotifier(opts Options, logger log.Logger) *OsascriptNotifier {
	return &OsascriptNotifier{
		processNotifier: newProcessNotifier(osascriptProgram, osascriptTimeout(opts.Timeout), loggerOrDefault(logger)),
	}
}

// osascriptTimeout keeps an explicitly configured timeout and lengthens the
// shared default.
func osascriptTimeout(d time.Duration) time.Duration {
	if d <= 0 || d == DefaultTimeout {
		return DefaultOsascriptTimeout
	}
	return d
}

// osascriptIgnored lists the Notification fields AppleScript cannot express
var osascriptIgnored = []string{"icon", "priority", "sticky"}

// Name returns "osascript"
func (o *OsascriptNotifier) Name() string { return BackendOsascript }

// Notify runs the display notification script
func (o *OsascriptNotifier) Notify(n Notification) {
	o.run(o.args(n))
}

func (o *OsascriptNotifier) args(n Notification) []string {
	args := make([]string, 0, 2*len(osascriptLines)+2)
	for _, line := range osascriptLines {
		args = append(args, "-e", line)
	}
	return append(args, n.Title, n.Message)
}
