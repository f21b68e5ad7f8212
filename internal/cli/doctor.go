package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/skylift-labs/skylift/internal/branding"
	"github.com/skylift-labs/skylift/internal/client"
	"github.com/skylift-labs/skylift/internal/config"
	"github.com/skylift-labs/skylift/internal/manifest"
)

var (
	checkManifestPath string
	checkPlatform     bool
)

func init() {
	doctorCmd.Flags().StringVar(&checkManifestPath, "check-manifest", "", "Validate a manifest file at the given path")
	doctorCmd.Flags().BoolVar(&checkPlatform, "check-platform", false, "Only probe platform connectivity")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the " + branding.DisplayName() + " setup",
	Long:  `Run diagnostic checks on your configuration, manifest, and platform connectivity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		out := cmd.OutOrStdout()

		if checkManifestPath != "" {
			return runManifestCheck(out, checkManifestPath)
		}
		if checkPlatform {
			runPlatformCheck(out)
			return nil
		}

		runConfigCheck(out)
		runToolingCheck(out)

		if _, err := os.Stat(branding.ManifestFile()); err == nil {
			// A broken manifest is a finding, not a reason to stop the
			// remaining checks.
			_ = runManifestCheck(out, branding.ManifestFile())
		} else {
			fmt.Fprintf(out, "Manifest: no %s in current directory\n", branding.ManifestFile())
		}

		runPlatformCheck(out)
		return nil
	},
}

func runConfigCheck(w io.Writer) {
	fmt.Fprintln(w, "Configuration:")
	if _, err := os.Stat(config.FilePath()); err == nil {
		fmt.Fprintf(w, "  [ OK ] %s\n", config.FilePath())
	} else {
		fmt.Fprintf(w, "  [INFO] no config file yet (%s)\n", config.FilePath())
	}

	if config.PlatformToken() != "" {
		fmt.Fprintf(w, "  [ OK ] platform token is set\n")
	} else {
		fmt.Fprintf(w, "  [WARN] platform token is not set, run '%s config set %s <token>'\n",
			branding.CLIName(), config.KeyPlatformToken)
	}
	fmt.Fprintf(w, "  [ OK ] platform URL: %s\n", config.PlatformURL())
}

func runToolingCheck(w io.Writer) {
	fmt.Fprintln(w, "Local tooling:")
	checkBinary(w, "docker")
	checkBinary(w, "git")
}

func checkBinary(w io.Writer, name string) {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", name)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
}

func runManifestCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Manifest validation: %s\n", path)

	result, err := manifest.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		m, err := manifest.ParseFile(path)
		if err != nil {
			fmt.Fprintf(w, "  [ OK ] Valid manifest\n")
			return nil
		}
		fmt.Fprintf(w, "  [ OK ] Valid %s manifest: %s\n", m.Spec.Type, m.Metadata.Name)
		return nil
	}

	issues := result.Issues()
	fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(issues))
	for _, issue := range issues {
		if issue.Path != "" {
			fmt.Fprintf(w, "    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(w, "    - %s\n", issue.Message)
		}
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(issues))
}

func runPlatformCheck(w io.Writer) {
	fmt.Fprintln(w, "Platform:")
	c := client.New(config.PlatformURL(), config.PlatformToken(), verbose)
	info, err := c.PlatformVersion()
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s is not reachable: %v\n", config.PlatformURL(), err)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s (platform %s)\n", config.PlatformURL(), info.Platform)

	for _, v := range manifest.SupportedAPIVersions {
		if info.AcceptsAPIVersion(v) {
			fmt.Fprintf(w, "  [ OK ] platform accepts apiVersion %s\n", v)
		} else {
			fmt.Fprintf(w, "  [WARN] platform does not accept apiVersion %s, update the CLI\n", v)
		}
	}
}
