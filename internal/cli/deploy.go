package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/skylift-labs/skylift/internal/branding"
	"github.com/skylift-labs/skylift/internal/buildctx"
	"github.com/skylift-labs/skylift/internal/client"
	"github.com/skylift-labs/skylift/internal/config"
	"github.com/skylift-labs/skylift/internal/manifest"
)

type deployCmdContext struct {
	client *client.Client
	stdin  io.Reader
	out    io.Writer
}

var (
	deployFile string
	deployYes  bool
)

func init() {
	deployCmd.Flags().StringVarP(&deployFile, "file", "f", "", "Manifest file (default: "+branding.ManifestFile()+")")
	deployCmd.Flags().BoolVarP(&deployYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(deployCmd)
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the service described by the manifest",
	Long: `Validate the manifest, preflight the build context, and submit the
service to the platform for rollout.

Nothing is sent until the manifest passes the same checks as
'` + branding.CLIName() + ` validate' and the dockerfile resolves inside the build context.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		c, err := client.FromConfig(verbose)
		if err != nil {
			return err
		}

		ctx := &deployCmdContext{
			client: c,
			stdin:  os.Stdin,
			out:    cmd.OutOrStdout(),
		}
		return runDeploy(ctx, deployFile, deployYes)
	},
}

func runDeploy(ctx *deployCmdContext, path string, yes bool) error {
	if path == "" {
		path = branding.ManifestFile()
	}

	m, err := manifest.LoadFile(path)
	if err != nil {
		return err
	}

	baseDir := filepath.Dir(path)
	if err := buildctx.CheckDockerfile(baseDir, m); err != nil {
		return err
	}

	summary, err := buildctx.Inspect(baseDir, m)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.out, "Deploying %s (%s, %s strategy)\n", m.Metadata.Name, m.Spec.Type, m.Spec.Deploy.Strategy)
	fmt.Fprintf(ctx.out, "Build context: %d file(s), %s\n", summary.FileCount, humanize.Bytes(uint64(summary.TotalSize)))

	if !yes && !confirmDeploy(ctx.stdin, ctx.out, m.Metadata.Name) {
		fmt.Fprintln(ctx.out, "Deployment aborted")
		return nil
	}

	dep, err := ctx.client.CreateDeployment(m.Metadata.Name, &client.DeployRequest{
		Manifest: m,
		Build: &client.BuildSummary{
			FileCount: summary.FileCount,
			TotalSize: summary.TotalSize,
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.out, "Deployment %s created. Run '%s status %s' to follow the rollout.\n",
		dep.ID, branding.CLIName(), m.Metadata.Name)
	return nil
}

func confirmDeploy(stdin io.Reader, out io.Writer, name string) bool {
	reader := bufio.NewReader(stdin)
	fmt.Fprintf(out, "Deploy %s to the platform? (y/N): ", name)
	accept, _ := reader.ReadString('\n')
	return strings.TrimSpace(accept) == "y"
}
