// Package health implements the checks behind `gotestnotify doctor`.
package health

import (
	"fmt"
	"os"
	"strings"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/fatih/color"
	"github.com/hashicorp/go-version"

	"github.com/ariel-frischer/gotestnotify/internal/assets"
	"github.com/ariel-frischer/gotestnotify/internal/notify"
)

// MinGoVersion is the oldest toolchain whose test2json stream carries
// build-output events
const MinGoVersion = "1.24"

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional checks are reported but never fail the report
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options configures RunHealthChecks
type Options struct {
	GoCmd   string
	IconDir string
	Host    notify.Environment
	// GoVersion returns the output of `<go> env GOVERSION`. Nil runs the command.
	GoVersion func(goCmd string) (string, error)
}

// RunHealthChecks runs all health checks and returns a report
func RunHealthChecks(opts Options) *HealthReport {
	report := &HealthReport{
		Checks: make([]CheckResult, 0),
		Passed: true,
	}

	add := func(c CheckResult) {
		report.Checks = append(report.Checks, c)
		if !c.Passed && !c.Optional {
			report.Passed = false
		}
	}

	add(CheckGoToolchain(opts.GoCmd, opts.GoVersion))
	for _, backend := range notify.Backends() {
		if backend == notify.BackendNone {
			continue
		}
		add(CheckBackend(backend, opts.Host))
	}
	add(CheckIconDir(opts.IconDir))

	return report
}

// CheckGoToolchain checks that the go command runs and is recent enough
func CheckGoToolchain(goCmd string, goVersion func(string) (string, error)) CheckResult {
	if goCmd == "" {
		goCmd = "go"
	}
	if goVersion == nil {
		goVersion = runGoVersion
	}

	out, err := goVersion(goCmd)
	if err != nil {
		return CheckResult{
			Name:    "Go toolchain",
			Passed:  false,
			Message: fmt.Sprintf("%s not usable: %v", goCmd, err),
		}
	}

	current, err := parseGoVersion(out)
	if err != nil {
		// devel builds have no semantic version; assume they are new enough
		return CheckResult{
			Name:    "Go toolchain",
			Passed:  true,
			Message: fmt.Sprintf("Go toolchain %s (version not comparable)", out),
		}
	}

	minimum := version.Must(version.NewVersion(MinGoVersion))
	if current.LessThan(minimum) {
		return CheckResult{
			Name:     "Go toolchain",
			Passed:   false,
			Message:  fmt.Sprintf("Go %s is older than %s; build failures may be reported without details", current, MinGoVersion),
			Optional: true,
		}
	}

	return CheckResult{
		Name:    "Go toolchain",
		Passed:  true,
		Message: fmt.Sprintf("Go toolchain %s", current),
	}
}

func runGoVersion(goCmd string) (string, error) {
	factory := command.NewFactory(env.NewRepository())
	return factory.Create(goCmd, []string{"env", "GOVERSION"}, nil).RunAndReturnTrimmedOutput()
}

// parseGoVersion accepts `go env GOVERSION` output such as "go1.24.3"
func parseGoVersion(s string) (*version.Version, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i] // "go1.25rc1 X:nocoverageredesign"
	}
	return version.NewVersion(strings.TrimPrefix(s, "go"))
}

// CheckBackend reports whether a notifier backend can deliver on this host
func CheckBackend(backend string, host notify.Environment) CheckResult {
	name := "Notifier " + backend
	if notify.Available(backend, host) {
		msg := backend + " available"
		if ignored := notify.Ignored(backend); len(ignored) > 0 {
			msg += " (ignores " + joinFields(ignored) + ")"
		}
		return CheckResult{
			Name:     name,
			Passed:   true,
			Message:  msg,
			Optional: true,
		}
	}

	return CheckResult{
		Name:     name,
		Passed:   false,
		Message:  backend + " not available on this host",
		Optional: true,
	}
}

// joinFields renders a list as "a, b and c"
func joinFields(fields []string) string {
	if len(fields) < 2 {
		return strings.Join(fields, "")
	}
	return strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1]
}

// CheckIconDir installs the notification icons into dir to prove it is writable
func CheckIconDir(dir string) CheckResult {
	if dir == "" {
		dir = assets.DefaultDir()
	}

	installed, err := assets.Install(dir)
	if err != nil {
		return CheckResult{
			Name:     "Icon directory",
			Passed:   false,
			Message:  fmt.Sprintf("cannot write icons to %s: %v", dir, err),
			Optional: true,
		}
	}

	if _, err := os.Stat(assets.Path(installed, notify.IconSuccess)); err != nil {
		return CheckResult{
			Name:     "Icon directory",
			Passed:   false,
			Message:  fmt.Sprintf("icon missing in %s", installed),
			Optional: true,
		}
	}

	return CheckResult{
		Name:     "Icon directory",
		Passed:   true,
		Message:  "icons installed in " + installed,
		Optional: true,
	}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var sb strings.Builder

	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()

	for _, check := range report.Checks {
		switch {
		case check.Passed:
			fmt.Fprintf(&sb, "%s %s: %s\n", ok("✓"), check.Name, check.Message)
		case check.Optional:
			fmt.Fprintf(&sb, "%s %s: %s\n", warn("-"), check.Name, check.Message)
		default:
			fmt.Fprintf(&sb, "%s Error: %s\n", bad("✗"), check.Message)
		}
	}

	return sb.String()
}
