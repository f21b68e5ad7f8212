package main

import (
	"fmt"
	"os"

	"github.com/skylift-labs/skylift/internal/cli"
	"github.com/skylift-labs/skylift/internal/manifest"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(manifest.ExitCode(err))
	}
}
