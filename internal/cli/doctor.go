package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/gotestnotify/internal/cli/shared"
	"github.com/ariel-frischer/gotestnotify/internal/config"
	"github.com/ariel-frischer/gotestnotify/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the go toolchain and notification backends",
	Long: `Run health checks to verify that tests can run and notifications can be delivered.

This command checks for:
  - the go toolchain and its version
  - each notification backend (dbus, growlnotify, notify-send, osascript)
  - a writable icon directory

Each check displays a ✓ if passed. Unavailable backends are listed but only a
missing go toolchain makes the command fail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return NewExitError(ExitConfigError)
		}

		host := hostEnvironment()
		report := health.RunHealthChecks(health.Options{
			GoCmd:   cfg.GoCmd,
			IconDir: cfg.IconDir,
			Host:    host,
		})

		out := cmd.OutOrStdout()
		fmt.Fprint(out, health.FormatReport(report))

		selected := selectNotifier(cfg.NotifyOptions(), host, nil)
		fmt.Fprintf(out, "\nSelected notifier: %s\n", selected.Name())
		if closer, ok := selected.(io.Closer); ok {
			closer.Close()
		}

		if !report.Passed {
			return NewExitError(ExitMissingDependencies)
		}
		return nil
	},
}

func init() {
	doctorCmd.GroupID = shared.GroupConfiguration
}

