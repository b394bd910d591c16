// Package health_test tests the doctor checks for the go toolchain, notifier
// backends and the icon directory.
package health

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/gotestnotify/internal/notify"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func goVersionOf(out string, err error) func(string) (string, error) {
	return func(string) (string, error) { return out, err }
}

// linuxHost has notify-send and a display, nothing else
func linuxHost() notify.Environment {
	return notify.Environment{
		GOOS: "linux",
		LookPath: func(file string) (string, error) {
			if file == "notify-send" {
				return "/usr/bin/notify-send", nil
			}
			return "", errors.New("not found")
		},
		Getenv: func(key string) string {
			if key == "DISPLAY" {
				return ":0"
			}
			return ""
		},
		IsInteractive: func() bool { return true },
		DBusAvailable: func() bool { return false },
	}
}

func TestCheckGoToolchain(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		out          string
		err          error
		wantPassed   bool
		wantOptional bool
		wantMessage  string
	}{
		"current release": {
			out:         "go1.24.3",
			wantPassed:  true,
			wantMessage: "Go toolchain 1.24.3",
		},
		"release candidate with experiments": {
			out:         "go1.25rc1 X:nocoverageredesign",
			wantPassed:  true,
			wantMessage: "Go toolchain 1.25.0-rc1",
		},
		"too old": {
			out:          "go1.21.0",
			wantOptional: true,
			wantMessage:  "older than 1.24",
		},
		"devel build": {
			out:         "devel go1.26-abcdef",
			wantPassed:  true,
			wantMessage: "version not comparable",
		},
		"missing binary": {
			err:         errors.New("executable file not found in $PATH"),
			wantMessage: "go not usable",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			result := CheckGoToolchain("", goVersionOf(tt.out, tt.err))
			assert.Equal(t, "Go toolchain", result.Name)
			assert.Equal(t, tt.wantPassed, result.Passed)
			assert.Equal(t, tt.wantOptional, result.Optional)
			assert.Contains(t, result.Message, tt.wantMessage)
		})
	}
}

func TestCheckBackend(t *testing.T) {
	t.Parallel()

	host := linuxHost()

	send := CheckBackend(notify.BackendNotifySend, host)
	assert.True(t, send.Passed)
	assert.True(t, send.Optional)
	assert.Equal(t, "Notifier notify-send", send.Name)

	growl := CheckBackend(notify.BackendGrowl, host)
	assert.False(t, growl.Passed)
	assert.True(t, growl.Optional)
	assert.Contains(t, growl.Message, "not available")
}

func TestCheckBackend_ReportsIgnoredFields(t *testing.T) {
	t.Parallel()

	host := linuxHost()
	host.GOOS = "darwin"
	host.LookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }

	osa := CheckBackend(notify.BackendOsascript, host)
	assert.True(t, osa.Passed)
	assert.Equal(t, "osascript available (ignores icon, priority and sticky)", osa.Message)

	growl := CheckBackend(notify.BackendGrowl, host)
	assert.Equal(t, "growlnotify available", growl.Message)
}

func TestJoinFields(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   []string
		want string
	}{
		"empty": {in: nil, want: ""},
		"one":   {in: []string{"icon"}, want: "icon"},
		"two":   {in: []string{"icon", "sticky"}, want: "icon and sticky"},
		"three": {in: []string{"icon", "priority", "sticky"}, want: "icon, priority and sticky"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, joinFields(tt.in))
		})
	}
}

func TestCheckIconDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "icons")
	result := CheckIconDir(dir)
	assert.True(t, result.Passed)
	assert.Contains(t, result.Message, dir)

	_, err := os.Stat(filepath.Join(dir, string(notify.IconFailure)))
	require.NoError(t, err)
}

func TestCheckIconDir_NotWritable(t *testing.T) {
	t.Parallel()

	// a regular file where the directory should be
	blocker := filepath.Join(t.TempDir(), "icons")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	result := CheckIconDir(blocker)
	assert.False(t, result.Passed)
	assert.True(t, result.Optional)
	assert.Contains(t, result.Message, "cannot write icons")
}

func TestRunHealthChecks(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		goOut      string
		goErr      error
		wantPassed bool
	}{
		"healthy":         {goOut: "go1.24.1", wantPassed: true},
		"old go warns":    {goOut: "go1.22.5", wantPassed: true},
		"go missing":      {goErr: errors.New("not found"), wantPassed: false},
		"unknown version": {goOut: "devel", wantPassed: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			report := RunHealthChecks(Options{
				GoCmd:     "go",
				IconDir:   t.TempDir(),
				Host:      linuxHost(),
				GoVersion: goVersionOf(tt.goOut, tt.goErr),
			})
			assert.Equal(t, tt.wantPassed, report.Passed)

			names := make(map[string]bool)
			for _, check := range report.Checks {
				names[check.Name] = true
			}
			assert.True(t, names["Go toolchain"])
			assert.True(t, names["Notifier dbus"])
			assert.True(t, names["Notifier growlnotify"])
			assert.True(t, names["Notifier notify-send"])
			assert.True(t, names["Notifier osascript"])
			assert.True(t, names["Icon directory"])
			assert.False(t, names["Notifier none"])
		})
	}
}

func TestFormatReport(t *testing.T) {
	tests := map[string]struct {
		report   *HealthReport
		expected []string
	}{
		"All checks pass": {
			report: &HealthReport{
				Checks: []CheckResult{
					{Name: "Go toolchain", Passed: true, Message: "Go toolchain 1.24.1"},
					{Name: "Notifier dbus", Passed: true, Message: "dbus available", Optional: true},
				},
				Passed: true,
			},
			expected: []string{
				"✓ Go toolchain: Go toolchain 1.24.1",
				"✓ Notifier dbus: dbus available",
			},
		},
		"Optional check fails": {
			report: &HealthReport{
				Checks: []CheckResult{
					{Name: "Notifier growlnotify", Message: "growlnotify not available on this host", Optional: true},
				},
				Passed: true,
			},
			expected: []string{"- Notifier growlnotify: growlnotify not available on this host"},
		},
		"Required check fails": {
			report: &HealthReport{
				Checks: []CheckResult{
					{Name: "Go toolchain", Message: "go not usable: not found"},
				},
				Passed: false,
			},
			expected: []string{"✗ Error: go not usable: not found"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			output := FormatReport(tt.report)
			for _, expected := range tt.expected {
				assert.Contains(t, output, expected, "Output should contain: %s", expected)
			}
			assert.Equal(t, len(tt.report.Checks), strings.Count(output, "\n"))
		})
	}
}
