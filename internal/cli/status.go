package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	"github.com/skylift-labs/skylift/internal/branding"
	"github.com/skylift-labs/skylift/internal/client"
	"github.com/skylift-labs/skylift/internal/config"
	"github.com/skylift-labs/skylift/internal/manifest"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status [service]",
	Short: "Show a service's state and recent deployments",
	Long: `Show the platform's view of a service and its rollout history.

With no argument the service name is taken from the manifest in the
current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		c, err := client.FromConfig(verbose)
		if err != nil {
			return err
		}

		name, err := serviceNameArg(args)
		if err != nil {
			return err
		}
		return runStatus(cmd.OutOrStdout(), c, name)
	},
}

// serviceNameArg resolves the service name from the argument or, absent
// one, from the manifest in the current directory.
func serviceNameArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	m, err := manifest.ParseFile(branding.ManifestFile())
	if err != nil {
		return "", fmt.Errorf("no service argument and no readable %s: %w", branding.ManifestFile(), err)
	}
	if m.Metadata.Name == "" {
		return "", fmt.Errorf("%s has no metadata.name", branding.ManifestFile())
	}
	return m.Metadata.Name, nil
}

func runStatus(out io.Writer, c *client.Client, name string) error {
	svc, err := c.GetService(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (%s): %s, %d replica(s), updated %s\n",
		svc.Name, svc.Type, svc.Status, svc.Replicas, humanize.Time(time.Unix(svc.UpdatedAt, 0)))

	deployments, err := c.ListDeployments(name)
	if err != nil {
		return err
	}

	if len(deployments) == 0 {
		fmt.Fprintln(out, "No deployments yet.")
		return nil
	}

	var output []string
	output = append(output, strings.Join([]string{"ID", "STATUS", "STRATEGY", "CREATED"}, "|"))
	for _, d := range deployments {
		row := []string{
			d.ID,
			d.Status,
			d.Strategy,
			humanize.Time(time.Unix(d.CreatedAt, 0)),
		}
		output = append(output, strings.Join(row, "|"))
	}
	fmt.Fprintln(out, columnize.SimpleFormat(output))
	return nil
}
