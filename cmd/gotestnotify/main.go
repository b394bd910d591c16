// gotestnotify - go test runner with desktop notifications
// Source: https://github.com/ariel-frischer/gotestnotify

package main

import (
	"os"

	"github.com/ariel-frischer/gotestnotify/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
