// Package notify delivers the desktop popup that summarises a test run.
//
// A Notifier is chosen once, when the runner is composed, by probing which
// mechanisms the host offers. Every variant is best-effort: delivery failures
// are logged and swallowed so they can never change the outcome of a run.
//
// # Backends
//
//   - dbus: org.freedesktop.Notifications on the session bus (native service)
//   - growlnotify: the Growl command-line notifier
//   - notify-send: libnotify's command-line client, dismissed after 3 seconds
//   - osascript: macOS Notification Center via AppleScript
//   - none: no-op
//
// # Usage
//
//	opts := notify.DefaultOptions()
//	n := notify.Select(opts, notify.HostEnvironment(), logger)
//	n.Notify(notify.Notification{Title: "Tests Passed", Message: "OK"})
package notify
