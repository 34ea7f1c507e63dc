// Package main is the entry point for the nullslot CLI
package main

import (
	"os"

	"github.com/marcjazz/nullslot/cmd"
	"github.com/marcjazz/nullslot/internal/output"
)

// set at build time via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	cmd.SetVersion(version)
	cmd.SetBuildInfo(commit, buildTime)
	if err := cmd.Execute(); err != nil {
		cliErr := output.Classify(err)
		cmd.Printer().FormatError(cliErr)
		os.Exit(cliErr.ExitCode)
	}
}
