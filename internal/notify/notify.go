package notify

import (
	"path/filepath"
	"time"
)

// Icon names one of the bundled notification images.
type Icon string

const (
	// IconSuccess is shown when every test passed
	IconSuccess Icon = "icon_ok.png"
	// IconFailure is shown when any test failed or errored
	IconFailure Icon = "icon_fail.png"
)

// Priority levels understood by the backends. Growl uses the value directly,
// the other backends map it to an urgency level.
const (
	PriorityLow    = -2
	PriorityNormal = 0
	PriorityHigh   = 2
)

// DefaultAppName is the application name registered with the backend
const DefaultAppName = "Go Test Notifier"

// DefaultTimeout bounds a single delivery attempt
const DefaultTimeout = 500 * time.Millisecond

// Notification is the payload handed to a Notifier. It is built once per run
// and never modified afterwards.
type Notification struct {
	// Title is the popup summary line
	Title string

	// Message is the popup body
	Message string

	// Priority encodes urgency: negative is quiet, positive is urgent
	Priority int

	// Icon is resolved to a file by the backend
	Icon Icon

	// Sticky asks the backend to keep the popup until dismissed
	Sticky bool
}

// Notifier delivers a notification through exactly one mechanism.
// Notify must not panic on delivery failure and must return within the
// backend's timeout.
type Notifier interface {
	Notify(n Notification)

	// Name identifies the backend (e.g. "dbus", "none")
	Name() string
}

// Options configure backend construction.
type Options struct {
	// Backend is a backend name or "auto"
	Backend string

	// AppName is registered with the notification service
	AppName string

	// IconDir holds the bundled icons; empty disables icons
	IconDir string

	// Timeout bounds each delivery attempt
	Timeout time.Duration

	// Enabled is the master switch
	Enabled bool

	// DisableInCI selects the no-op backend when a CI environment is detected
	DisableInCI bool

	// InteractiveOnly selects the no-op backend when no terminal is attached
	InteractiveOnly bool
}

// DefaultOptions returns Options with default values
func DefaultOptions() Options {
	return Options{
		Backend:         BackendAuto,
		AppName:         DefaultAppName,
		Timeout:         DefaultTimeout,
		Enabled:         true,
		DisableInCI:     true,
		InteractiveOnly: false,
	}
}

// iconPath resolves an icon inside dir. An empty dir or icon yields "".
func iconPath(dir string, icon Icon) string {
	if dir == "" || icon == "" {
		return ""
	}
	return filepath.Join(dir, string(icon))
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}
