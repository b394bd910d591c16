package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/gotestnotify/internal/notify"
)

// recordingNotifier captures every notification and the options it was selected with
type recordingNotifier struct {
	opts  notify.Options
	calls []notify.Notification
}

func (r *recordingNotifier) Notify(n notify.Notification) {
	r.calls = append(r.calls, n)
}

func (r *recordingNotifier) Name() string { return "recording" }

// useRecordingNotifier swaps notifier selection for the duration of the test.
// Callers must not use t.Parallel().
func useRecordingNotifier(t *testing.T) *recordingNotifier {
	t.Helper()
	rec := &recordingNotifier{}

	origSelect, origHost := selectNotifier, hostEnvironment
	selectNotifier = func(opts notify.Options, _ notify.Environment, _ log.Logger) notify.Notifier {
		rec.opts = opts
		return rec
	}
	hostEnvironment = func() notify.Environment {
		return notify.Environment{
			GOOS:          "linux",
			LookPath:      func(string) (string, error) { return "", errors.New("not found") },
			Getenv:        func(string) string { return "" },
			IsInteractive: func() bool { return false },
			DBusAvailable: func() bool { return false },
		}
	}
	t.Cleanup(func() {
		selectNotifier, hostEnvironment = origSelect, origHost
	})
	return rec
}

// isolate points HOME and the XDG directories at an empty temp dir
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, ".cache"))
	return tmpDir
}

// fakeGo writes a shell script standing in for the go binary and points
// GOTESTNOTIFY_GO_CMD at it
func fakeGo(t *testing.T, stream string, code int) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake go binary is a shell script")
	}

	dir := t.TempDir()
	streamFile := filepath.Join(dir, "stream.jsonl")
	require.NoError(t, os.WriteFile(streamFile, []byte(stream), 0o644))

	script := "#!/bin/sh\n" +
		"cat '" + streamFile + "'\n" +
		"exit " + string(rune('0'+code)) + "\n"
	path := filepath.Join(dir, "go")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	t.Setenv("GOTESTNOTIFY_GO_CMD", path)
}

// newRunCommand builds a fresh run command so flag state does not leak between tests
func newRunCommand(args ...string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{Use: "run", RunE: runTests, SilenceErrors: true}
	cmd.Flags().StringP("config", "c", "", "")
	cmd.Flags().BoolP("debug", "d", false, "")
	addRunFlags(cmd)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	return cmd, &stdout, &stderr
}
