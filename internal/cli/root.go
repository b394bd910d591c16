// Package cli provides the Cobra-based gotestnotify command line: run executes
// go test and notifies the desktop of the outcome, doctor checks the host and
// version prints build information.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/gotestnotify/internal/cli/shared"
	"github.com/ariel-frischer/gotestnotify/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "gotestnotify",
	Short: "Run go tests and get a desktop notification with the result",
	Long: `gotestnotify runs go test, prints a summary of the run and sends a desktop
notification with the outcome through D-Bus, growlnotify, notify-send or osascript.`,
	Example: `  # Test every package in the module
  gotestnotify run

  # Test selected packages with extra go test flags
  gotestnotify run ./internal/... --test-args "-race -count=1"

  # Check which notification backends work on this machine
  gotestnotify doctor`,
	SilenceErrors: true,
}

// Execute runs the root command. Errors other than bare exit codes are
// printed to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !shared.IsExitError(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupTesting, Title: "Testing:"})
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupConfiguration, Title: "Configuration:"})
	rootCmd.SetHelpCommandGroupID(shared.GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(shared.GroupConfiguration)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultLocalPath, "Path to config file")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}
