package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skylift-labs/skylift/internal/branding"
	"github.com/skylift-labs/skylift/internal/config"
	"github.com/skylift-labs/skylift/internal/updater"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` validates, inspects, and deploys services described by a ` + branding.ManifestFile() + `
manifest. The manifest is the single source of truth: the CLI checks it
locally and the platform rolls out exactly what it says.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logrus.SetOutput(os.Stderr)
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.WarnLevel)
		}

		// Skip banners for commands that manage their own update state.
		name := cmd.Name()
		if name == "update" || name == "self-update" || name == "init" {
			return
		}

		// Non-blocking banner from cached version check.
		u := updater.New(buildVersion)
		u.CheckAndPrintBanner(os.Stderr, config.Dir())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// manifestArg resolves the optional positional manifest path, defaulting to
// the manifest file in the current directory.
func manifestArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return branding.ManifestFile()
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
