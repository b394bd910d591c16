package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/ariel-frischer/gotestnotify/internal/notify"
)

// Notification titles
const (
	TitlePassed = "Tests Passed"
	TitleFailed = "Tests Failed"
)

// Outcome is the per-run view of a Result that the notification is built from
type Outcome struct {
	TestsRun int
	Elapsed  time.Duration
	Failures int
	Errors   int
}

// OutcomeOf derives an Outcome from a populated Result
func OutcomeOf(result *Result, elapsed time.Duration) Outcome {
	return Outcome{
		TestsRun: result.TestsRun,
		Elapsed:  elapsed,
		Failures: len(result.Failures),
		Errors:   len(result.Errors),
	}
}

// Succeeded reports whether there were no failures and no errors
func (o Outcome) Succeeded() bool {
	return o.Failures == 0 && o.Errors == 0
}

// RanLine formats "Ran N test(s) in X.XXXs"
func RanLine(n int, elapsed time.Duration) string {
	plural := "s"
	if n == 1 {
		plural = ""
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return fmt.Sprintf("Ran %d test%s in %.3fs", n, plural, elapsed.Seconds())
}

// FailedLine formats "FAILED (failures=F, errors=E)". A clause is present
// only when its count is positive.
func FailedLine(failures, errors int) string {
	clauses := make([]string, 0, 2)
	if failures > 0 {
		clauses = append(clauses, fmt.Sprintf("failures=%d", failures))
	}
	if errors > 0 {
		clauses = append(clauses, fmt.Sprintf("errors=%d", errors))
	}
	return "FAILED (" + strings.Join(clauses, ", ") + ")"
}

// StatusLine is "OK" for a successful outcome and the FAILED line otherwise
func (o Outcome) StatusLine() string {
	if o.Succeeded() {
		return "OK"
	}
	return FailedLine(o.Failures, o.Errors)
}

// Summarize builds the notification for an outcome. Title, icon, priority and
// sticky all follow from Succeeded alone.
func Summarize(o Outcome) notify.Notification {
	n := notify.Notification{
		Message: o.StatusLine() + "\n" + RanLine(o.TestsRun, o.Elapsed),
	}
	if o.Succeeded() {
		n.Title = TitlePassed
		n.Icon = notify.IconSuccess
		n.Priority = notify.PriorityLow
		n.Sticky = false
	} else {
		n.Title = TitleFailed
		n.Icon = notify.IconFailure
		n.Priority = notify.PriorityHigh
		n.Sticky = true
	}
	return n
}
