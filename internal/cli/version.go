package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skylift-labs/skylift/internal/branding"
	"github.com/skylift-labs/skylift/internal/client"
	"github.com/skylift-labs/skylift/internal/config"
	"github.com/skylift-labs/skylift/internal/updater"
)

var (
	versionShort bool
	versionJSON  bool
	versionCheck bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "Also query the platform for its version")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionShort {
			fmt.Println(buildVersion)
			return nil
		}

		if versionJSON {
			info := map[string]string{
				"version": buildVersion,
				"commit":  buildCommit,
				"date":    buildDate,
			}
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("%s version %s (commit: %s, built: %s)\n", branding.CLIName(), buildVersion, buildCommit, buildDate)

		if versionCheck {
			config.Load()
			c := client.New(config.PlatformURL(), config.PlatformToken(), verbose)
			info, err := c.PlatformVersion()
			if err != nil {
				return fmt.Errorf("querying platform version: %w", err)
			}
			fmt.Printf("platform %s at %s (latest CLI: %s)\n", info.Platform, config.PlatformURL(), info.LatestCLI)

			if available, err := updater.IsUpdateAvailable(buildVersion, info.LatestCLI); err == nil && available {
				fmt.Printf("Update available: run '%s update'\n", branding.CLIName())
			}
		}
		return nil
	},
}
