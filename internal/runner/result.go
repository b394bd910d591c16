package runner

import (
	"fmt"
	"io"
	"strings"
)

// Separator lines used in the text report
var (
	Separator1 = strings.Repeat("=", 70)
	Separator2 = strings.Repeat("-", 70)
)

// Record is one failure, error or skip entry
type Record struct {
	// Name identifies the test (e.g. "pkg/path.TestFoo/sub")
	Name string

	// Output is the captured test output or the error text
	Output string
}

// Result collects test outcomes during a run. A Test populates it; the Runner
// reads it afterwards and hands it back to the caller.
type Result struct {
	TestsRun int
	Failures []Record
	Errors   []Record
	Skipped  []Record
}

// NewResult creates an empty result collector
func NewResult() *Result {
	return &Result{
		Failures: make([]Record, 0),
		Errors:   make([]Record, 0),
		Skipped:  make([]Record, 0),
	}
}

// StartTest counts a test as run
func (r *Result) StartTest(string) {
	r.TestsRun++
}

// AddFailure records a test whose assertions failed
func (r *Result) AddFailure(name, output string) {
	r.Failures = append(r.Failures, Record{Name: name, Output: output})
}

// AddError records a test or package that could not run to completion
func (r *Result) AddError(name, output string) {
	r.Errors = append(r.Errors, Record{Name: name, Output: output})
}

// AddSkip records a skipped test
func (r *Result) AddSkip(name, reason string) {
	r.Skipped = append(r.Skipped, Record{Name: name, Output: reason})
}

// WasSuccessful reports whether there were no failures and no errors
func (r *Result) WasSuccessful() bool {
	return len(r.Failures) == 0 && len(r.Errors) == 0
}

// PrintErrors writes every error and then every failure, each framed by
// separator lines.
func (r *Result) PrintErrors(w io.Writer) {
	printRecords(w, "ERROR", r.Errors)
	printRecords(w, "FAIL", r.Failures)
}

func printRecords(w io.Writer, flavour string, records []Record) {
	for _, rec := range records {
		fmt.Fprintln(w, Separator1)
		fmt.Fprintf(w, "%s: %s\n", flavour, rec.Name)
		fmt.Fprintln(w, Separator2)
		fmt.Fprintln(w, strings.TrimRight(rec.Output, "\n"))
	}
}

// Test is anything that can run against a result collector
type Test interface {
	Run(result *Result)
}

// TestFunc adapts a function to the Test interface
type TestFunc func(result *Result)

// Run calls f(result)
func (f TestFunc) Run(result *Result) {
	f(result)
}

// Suite runs its tests in order against the same collector
type Suite []Test

// Run runs each test in turn
func (s Suite) Run(result *Result) {
	for _, t := range s {
		t.Run(result)
	}
}
