package notify

// NullNotifier discards every notification
type NullNotifier struct{}

// Name returns "none"
func (NullNotifier) Name() string { return BackendNone }

// Notify does nothing
func (NullNotifier) Notify(Notification) {}
