package notify

import (
	"strconv"

	"github.com/bitrise-io/go-utils/v2/log"
)

const growlProgram = "growlnotify"

// timestampLayout is appended to growl messages
const timestampLayout = "2006-01-02 15:04:05"

// GrowlNotifier delivers through the growlnotify command-line tool.
// Priority is passed through unchanged and sticky maps to -s.
type GrowlNotifier struct {
	processNotifier
	appName string
	iconDir string
}

// NewGrowlNotifier creates a growlnotify backend
func NewGrowlNotifier(opts Options, logger log.Logger) *GrowlNotifier {
	return &GrowlNotifier{
		processNotifier: newProcessNotifier(growlProgram, opts.Timeout, loggerOrDefault(logger)),
		appName:         opts.AppName,
		iconDir:         opts.IconDir,
	}
}

// Name returns "growlnotify"
func (g *GrowlNotifier) Name() string { return BackendGrowl }

// Notify runs growlnotify with the notification as separate arguments
func (g *GrowlNotifier) Notify(n Notification) {
	g.run(g.args(n))
}

func (g *GrowlNotifier) args(n Notification) []string {
	args := []string{
		"-n", g.appName,
		"-p", strconv.Itoa(n.Priority),
	}
	if icon := iconPath(g.iconDir, n.Icon); icon != "" {
		args = append(args, "--image="+icon)
	}
	args = append(args, "-m", n.Message+"\n"+g.now().Format(timestampLayout))
	if n.Sticky {
		args = append(args, "-s")
	}
	return append(args, n.Title)
}
