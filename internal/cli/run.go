package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/gotestnotify/internal/assets"
	"github.com/ariel-frischer/gotestnotify/internal/cli/shared"
	"github.com/ariel-frischer/gotestnotify/internal/config"
	"github.com/ariel-frischer/gotestnotify/internal/gotest"
	"github.com/ariel-frischer/gotestnotify/internal/notify"
	"github.com/ariel-frischer/gotestnotify/internal/progress"
	"github.com/ariel-frischer/gotestnotify/internal/runner"
)

// selectNotifier and hostEnvironment are replaced in tests
var (
	selectNotifier  = notify.Select
	hostEnvironment = notify.HostEnvironment
)

var runCmd = &cobra.Command{
	Use:   "run [packages...]",
	Short: "Run go test and notify the outcome",
	Long: `Run go test -json for the given package patterns (default ./...), print the
test report and send one desktop notification with the outcome.

The command exits with status 1 when a test failed, a test errored or a
package did not build.`,
	Example: `  # Test everything with the configured notifier
  gotestnotify run

  # Force a backend and show test output
  gotestnotify run --notifier notify-send -v ./...

  # Run without notifying
  gotestnotify run --no-notify`,
	RunE: runTests,
}

func init() {
	runCmd.GroupID = shared.GroupTesting
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("notifier", notify.BackendAuto, "Notifier backend: auto, dbus, growlnotify, notify-send, osascript or none")
	cmd.Flags().BoolP("verbose", "v", false, "Echo test output while running")
	cmd.Flags().String("test-args", "", "Extra go test flags, shell quoted")
	cmd.Flags().Bool("no-notify", false, "Do not send a notification")
	cmd.Flags().Duration("timeout", notify.DefaultTimeout, "Maximum time to wait for notification delivery")
}

func runTests(cmd *cobra.Command, patterns []string) error {
	cmd.SilenceUsage = true // Don't show help for test failures

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return NewExitError(ExitConfigError)
	}

	if err := applyRunFlags(cmd, cfg); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	testArgs, err := gotest.ParseArgs(cfg.TestArgs)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	logger := log.NewLogger()
	logger.EnableDebugLog(cfg.Debug)

	opts := cfg.NotifyOptions()
	opts.IconDir = installIcons(cfg.IconDir, logger)

	notifier := selectNotifier(opts, hostEnvironment(), logger)
	if closer, ok := notifier.(io.Closer); ok {
		defer closer.Close()
	}

	pkg := gotest.NewPackage(patterns, logger)
	pkg.GoCmd = cfg.GoCmd
	pkg.Args = testArgs
	if cfg.Verbose {
		pkg.Echo = cmd.OutOrStdout()
	}

	test := progress.Wrap(pkg, progress.DetectTerminalCapabilities(), "running go test")
	result := runner.New(cmd.OutOrStdout(), notifier).Run(test)
	if !result.WasSuccessful() {
		return NewExitError(ExitTestsFailed)
	}
	return nil
}

// applyRunFlags overrides configuration with flags given on the command line
func applyRunFlags(cmd *cobra.Command, cfg *config.Configuration) error {
	flags := cmd.Flags()

	if flags.Changed("notifier") {
		backend, _ := flags.GetString("notifier")
		if !notify.ValidBackend(backend) {
			return fmt.Errorf("%w: %q", notify.ErrUnknownBackend, backend)
		}
		cfg.Notifier = backend
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("test-args") {
		cfg.TestArgs, _ = flags.GetString("test-args")
	}
	if flags.Changed("no-notify") {
		noNotify, _ := flags.GetBool("no-notify")
		cfg.Enabled = cfg.Enabled && !noNotify
	}
	if flags.Changed("timeout") {
		timeout, _ := flags.GetDuration("timeout")
		if timeout < 0 || timeout > 30*time.Second {
			return fmt.Errorf("timeout %s out of range (0s-30s)", timeout)
		}
		cfg.Timeout = timeout
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	return nil
}

// installIcons returns the directory holding the notification icons, or ""
// when they could not be installed
func installIcons(dir string, logger log.Logger) string {
	if dir == "" {
		dir = assets.DefaultDir()
	}
	installed, err := assets.Install(dir)
	if err != nil {
		logger.Warnf("[notify] icons unavailable: %v", err)
		return ""
	}
	return installed
}
