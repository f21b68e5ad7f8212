package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skylift-labs/skylift/internal/branding"
	"github.com/skylift-labs/skylift/internal/config"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write ` + branding.DisplayName() + ` configuration stored at ~/` + branding.HomeDir() + `/config.yaml.

Keys the CLI itself reads:

  ` + config.KeyPlatformURL + `     platform API base URL
  ` + config.KeyPlatformToken + `   platform API token

Every key can also come from the environment: platform.token maps to
` + branding.EnvVar("PLATFORM_TOKEN") + `.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		value := config.Get(args[0])
		fmt.Println(value)
		return nil
	},
}
