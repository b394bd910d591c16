package runner

import (
	"time"

	"github.com/ariel-frischer/gotestnotify/internal/notify"
)

// recordingNotifier captures every notification it receives
type recordingNotifier struct {
	calls []notify.Notification
}

func (r *recordingNotifier) Notify(n notify.Notification) {
	r.calls = append(r.calls, n)
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) last() notify.Notification {
	return r.calls[len(r.calls)-1]
}

// fixedClock returns start on the first call and start+elapsed afterwards
func fixedClock(elapsed time.Duration) func() time.Time {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	return func() time.Time {
		calls++
		if calls == 1 {
			return start
		}
		return start.Add(elapsed)
	}
}

// fakeTest populates the collector with fixed counts
type fakeTest struct {
	run      int
	failures int
	errors   int
}

func (f fakeTest) Run(result *Result) {
	for i := 0; i < f.run; i++ {
		result.StartTest("TestCase")
	}
	for i := 0; i < f.failures; i++ {
		result.AddFailure("TestFailing", "expected 1, got 2")
	}
	for i := 0; i < f.errors; i++ {
		result.AddError("example.com/pkg", "build failed")
	}
}
