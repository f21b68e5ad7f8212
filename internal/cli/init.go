package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skylift-labs/skylift/internal/branding"
	"github.com/skylift-labs/skylift/internal/scaffold"
)

var (
	initName string
	initType string
	initPort int
)

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "Service name (default: current directory name)")
	initCmd.Flags().StringVar(&initType, "type", "web", "Service type (web or worker)")
	initCmd.Flags().IntVar(&initPort, "port", 8080, "Listen port for web services")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a manifest in the current directory",
	Long: `Create a starter ` + branding.ManifestFile() + `, Dockerfile, and .dockerignore in the
current directory.

Files that already exist are left untouched; an existing manifest is an
error so running init can never clobber a configured service.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}

		name := initName
		if name == "" {
			name = filepath.Base(cwd)
		}

		data := scaffold.NewScaffoldData(name, initType, initPort)
		result, err := scaffold.Generate(initType, data, cwd)
		if err != nil {
			return err
		}

		for _, f := range result.Files {
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", f)
		}
		for _, f := range result.Skipped {
			fmt.Fprintf(cmd.OutOrStdout(), "Kept existing %s\n", f)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(cmd.OutOrStdout(), "Warning: %s\n", w)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nEdit %s, then run '%s validate'.\n", branding.ManifestFile(), branding.CLIName())
		return nil
	},
}
