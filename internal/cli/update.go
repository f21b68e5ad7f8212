package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/skylift-labs/skylift/internal/branding"
	"github.com/skylift-labs/skylift/internal/config"
	"github.com/skylift-labs/skylift/internal/updater"
)

var (
	updateCheck   bool
	updateForce   bool
	updateVersion string
)

func init() {
	updateCmd.Flags().BoolVar(&updateCheck, "check", false, "Only check for updates, don't install")
	updateCmd.Flags().BoolVar(&updateForce, "force", false, "Force update even if already on latest version")
	updateCmd.Flags().StringVar(&updateVersion, "version", "", "Install a specific version (e.g., 1.2.0)")

	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:     "update",
	Aliases: []string{"self-update"},
	Short:   "Update " + branding.CLIName() + " to the latest version",
	Long: `Downloads and installs the latest version of ` + branding.CLIName() + ` from GitHub releases
or a configured mirror.

  ` + branding.CLIName() + ` update              # update to latest
  ` + branding.CLIName() + ` update --check      # check only
  ` + branding.CLIName() + ` update --version 1.2.0  # install specific version`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []updater.Option
		if mirror := resolveMirror(); mirror != "" {
			opts = append(opts, updater.WithMirror(mirror))
		}
		u := updater.New(buildVersion, opts...)

		release, err := fetchTargetRelease(u, updateVersion)
		if err != nil {
			return err
		}

		available, err := updater.IsUpdateAvailable(buildVersion, release.Version)
		if err != nil {
			// Unparseable local versions come from source builds; those
			// always accept whatever release was requested.
			if buildVersion != "dev" {
				return fmt.Errorf("comparing versions: %w", err)
			}
			available = true
		}

		if updateCheck {
			reportAvailability(cmd.OutOrStdout(), available, release.Version)
			return nil
		}
		if !available && !updateForce {
			fmt.Fprintf(cmd.OutOrStdout(), "You are on the latest version (%s)\n", buildVersion)
			return nil
		}

		if err := installRelease(u, release); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully updated to %s\n", release.Version)
		return nil
	},
}

// resolveMirror returns the release mirror base URL, if any. The
// environment variable wins over the config file so one-off runs can
// redirect without editing config.
func resolveMirror() string {
	config.Load()
	if env := os.Getenv(branding.EnvVar("MIRROR")); env != "" {
		return env
	}
	return config.Get("mirror")
}

// fetchTargetRelease resolves which release to install: a pinned version
// when --version was given, the latest otherwise.
func fetchTargetRelease(u *updater.Updater, version string) (*updater.Release, error) {
	if version != "" {
		fmt.Fprintf(os.Stderr, "Checking for version %s...\n", version)
		release, err := u.CheckSpecificVersion(version)
		if err != nil {
			return nil, fmt.Errorf("checking for updates: %w", err)
		}
		return release, nil
	}
	fmt.Fprintln(os.Stderr, "Checking for updates...")
	release, err := u.CheckLatestVersion()
	if err != nil {
		return nil, fmt.Errorf("checking for updates: %w", err)
	}
	return release, nil
}

func reportAvailability(w io.Writer, available bool, latest string) {
	if available {
		fmt.Fprintf(w, "Update available: %s -> %s\n", buildVersion, latest)
		return
	}
	fmt.Fprintf(w, "You are on the latest version (%s)\n", buildVersion)
}

// installRelease runs the full pipeline: download the platform archive,
// verify it against checksums.txt, extract the binary, and swap it in
// over the running executable.
func installRelease(u *updater.Updater, release *updater.Release) error {
	fmt.Fprintf(os.Stderr, "Downloading %s %s for %s/%s...\n", branding.CLIName(), release.Version, runtime.GOOS, runtime.GOARCH)

	tmpDir, err := os.MkdirTemp("", branding.CLIName()+"-update-*")
	if err != nil {
		return fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	archivePath, err := u.DownloadBinary(release, tmpDir)
	if err != nil {
		return fmt.Errorf("downloading binary: %w", err)
	}

	fmt.Fprintln(os.Stderr, "Verifying checksum...")
	if err := u.VerifyChecksum(release, archivePath); err != nil {
		return fmt.Errorf("checksum verification failed: %w", err)
	}

	binPath, err := updater.ExtractBinary(archivePath, tmpDir)
	if err != nil {
		return fmt.Errorf("extracting binary: %w", err)
	}

	fmt.Fprintln(os.Stderr, "Installing...")
	currentBinary, err := os.Executable()
	if err != nil {
		return fmt.Errorf("finding current binary: %w", err)
	}
	if err := updater.ReplaceBinary(binPath, currentBinary, release.Version); err != nil {
		return err
	}

	// Record the new version so the next invocation does not print a
	// stale update banner.
	_ = updater.SaveCache(config.Dir(), &updater.VersionCache{
		LatestVersion:   release.Version,
		CurrentVersion:  release.Version,
		CheckedAt:       time.Now(),
		UpdateAvailable: false,
	})
	return nil
}
