package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/skylift-labs/skylift/internal/buildctx"
	"github.com/skylift-labs/skylift/internal/manifest"
)

var (
	inspectJSON    bool
	inspectContext bool
)

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output the effective manifest as JSON")
	inspectCmd.Flags().BoolVar(&inspectContext, "context", false, "Also summarize the build context")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [path]",
	Short: "Show the effective manifest with defaults applied",
	Long: `Load a manifest, apply platform defaults, and print the result.

The output is what the platform will actually act on, so it answers
"which strategy/dockerfile/runtime does this service really get".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd.OutOrStdout(), manifestArg(args), inspectJSON, inspectContext)
	},
}

func runInspect(w io.Writer, path string, asJSON, withContext bool) error {
	m, err := manifest.LoadFile(path)
	if err != nil {
		return err
	}

	if asJSON {
		out, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling manifest: %w", err)
		}
		fmt.Fprintln(w, string(out))
	} else {
		out, err := manifest.Marshal(m)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(out))
	}

	if withContext {
		summary, err := buildctx.Inspect(filepath.Dir(path), m)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\nBuild context: %s\n", summary.Root)
		if summary.Dockerfile != "" {
			fmt.Fprintf(w, "Dockerfile:    %s\n", summary.Dockerfile)
		}
		fmt.Fprintf(w, "Files:         %d (%s)\n", summary.FileCount, humanize.Bytes(uint64(summary.TotalSize)))
		fmt.Fprintf(w, "Ignored:       %d\n", summary.Ignored)
	}

	return nil
}
