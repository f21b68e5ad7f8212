package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/skylift-labs/skylift/internal/manifest"
)

var envNoRedact bool

func init() {
	envListCmd.Flags().BoolVar(&envNoRedact, "no-redact", false, "Show values without redaction")

	envCmd.AddCommand(envListCmd)
	rootCmd.AddCommand(envCmd)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Inspect manifest environment variables",
}

var envListCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "Print env entries (redacted by default)",
	Long: `Print the manifest's env entries in declaration order.

Values whose keys look sensitive (TOKEN, SECRET, PASSWORD, ...) are
redacted; ` + "`${...}`" + ` references are shown as-is since they carry no
secret material themselves.

Use --no-redact to show actual values.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEnvList(cmd.OutOrStdout(), manifestArg(args), envNoRedact)
	},
}

func runEnvList(w io.Writer, path string, noRedact bool) error {
	m, err := manifest.LoadFile(path)
	if err != nil {
		return err
	}

	if len(m.Spec.Env) == 0 {
		fmt.Fprintln(w, "(no env entries)")
		return nil
	}

	for _, e := range m.Spec.Env {
		value := e.Value
		if !noRedact {
			value = e.Redacted()
		}
		fmt.Fprintf(w, "%s=%s\n", e.Key, value)
	}
	return nil
}
