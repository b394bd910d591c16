package notify

import (
	"strconv"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
)

const notifySendProgram = "notify-send"

// notifySendExpire is the fixed auto-dismiss delay for notify-send popups
const notifySendExpire = 3 * time.Second

// NotifySendNotifier delivers through libnotify's notify-send. Popups are
// dismissed after three seconds regardless of Sticky.
type NotifySendNotifier struct {
	processNotifier
	appName string
	iconDir string
}

// NewNotifySendNotifier creates a notify-send backend
func NewNotifySendNotifier(opts Options, logger log.Logger) *NotifySendNotifier {
	return &NotifySendNotifier{
		processNotifier: newProcessNotifier(notifySendProgram, opts.Timeout, loggerOrDefault(logger)),
		appName:         opts.AppName,
		iconDir:         opts.IconDir,
	}
}

// Name returns "notify-send"
func (s *NotifySendNotifier) Name() string { return BackendNotifySend }

// Notify runs notify-send with the notification as separate arguments
func (s *NotifySendNotifier) Notify(n Notification) {
	s.run(s.args(n))
}

func (s *NotifySendNotifier) args(n Notification) []string {
	args := []string{
		"--app-name=" + s.appName,
		"--urgency=" + urgencyName(n.Priority),
		"--expire-time=" + strconv.FormatInt(notifySendExpire.Milliseconds(), 10),
	}
	if icon := iconPath(s.iconDir, n.Icon); icon != "" {
		args = append(args, "--icon="+icon)
	}
	// "--" keeps a title starting with a dash from being parsed as a flag
	return append(args, "--", n.Title, n.Message)
}
