package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/skylift-labs/skylift/internal/manifest"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a service manifest",
	Long: `Validate a service manifest against the schema and cross-field rules.

The exit code reports the outcome: 0 for a valid manifest, 1 when the
input is not well-formed YAML, 2 when the document violates the schema
or a cross-field rule.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), manifestArg(args))
	},
}

func runValidate(w io.Writer, path string) error {
	m, err := manifest.LoadFile(path)
	if err != nil {
		var verr *manifest.Error
		if errors.As(err, &verr) && len(verr.Issues) > 0 {
			fmt.Fprintf(w, "%s: %d validation issue(s)\n", path, len(verr.Issues))
			for _, issue := range verr.Issues {
				if issue.Path != "" {
					fmt.Fprintf(w, "  - %s: %s\n", issue.Path, issue.Message)
				} else {
					fmt.Fprintf(w, "  - %s\n", issue.Message)
				}
			}
		}
		return err
	}

	fmt.Fprintf(w, "%s is a valid %s manifest: %s\n", path, m.Spec.Type, m.Metadata.Name)
	return nil
}
