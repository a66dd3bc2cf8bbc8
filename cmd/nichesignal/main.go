// CLI entry point for NicheSignal.
package main

import (
	"github.com/turtacn/NicheSignal/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
	cli.Execute()
}
