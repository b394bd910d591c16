package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/gotestnotify/internal/build"
	"github.com/ariel-frischer/gotestnotify/internal/cli/shared"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for gotestnotify",
	Example: `  # Show version info
  gotestnotify version

  # Plain output (for scripts)
  gotestnotify version --plain`,
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")
		if plain {
			printPlainVersion(cmd.OutOrStdout())
		} else {
			printPrettyVersion(cmd.OutOrStdout())
		}
	},
}

func init() {
	versionCmd.GroupID = shared.GroupConfiguration
	versionCmd.Flags().Bool("plain", false, "Plain output without formatting")
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "gotestnotify %s\n", build.Version)
	fmt.Fprintf(w, "commit: %s\n", build.Commit)
	fmt.Fprintf(w, "built: %s\n", build.BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s\n", build.Platform())
}

// printPrettyVersion prints aligned, colored version information
func printPrettyVersion(w io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintln(w, cyan("gotestnotify"))
	info := []struct {
		label string
		value string
	}{
		{"Version", build.Version},
		{"Commit", build.ShortCommit(build.Commit)},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", build.Platform()},
	}
	for _, item := range info {
		fmt.Fprintf(w, "  %s  %s\n", yellow(fmt.Sprintf("%-8s", item.label)), white(item.value))
	}
	if build.IsDevBuild() {
		fmt.Fprintln(w, dim("  development build"))
	}
}
