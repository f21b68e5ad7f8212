package updater

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/skylift-labs/skylift/internal/branding"
)

// archiveExt returns the release archive extension for an OS. Windows
// builds ship as zip, everything else as tar.gz.
func archiveExt(goos string) string {
	if goos == "windows" {
		return ".zip"
	}
	return ".tar.gz"
}

// ArchiveName returns the release archive name for the running platform,
// following the skylift_{os}_{arch} naming of the published assets.
func ArchiveName() string {
	return branding.CLIName() + "_" + runtime.GOOS + "_" + runtime.GOARCH + archiveExt(runtime.GOOS)
}

// BinaryName returns the release binary's file name on this OS.
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return branding.CLIName() + ".exe"
	}
	return branding.CLIName()
}

// SelectAssetForPlatform picks the asset for the running OS and
// architecture. An exact ArchiveName match wins; otherwise any archive
// whose name carries the os_arch pair is accepted, which tolerates
// versioned asset names.
func SelectAssetForPlatform(assets []Asset) (*Asset, error) {
	expected := ArchiveName()
	for i := range assets {
		if assets[i].Name == expected {
			return &assets[i], nil
		}
	}

	pair := runtime.GOOS + "_" + runtime.GOARCH
	for i := range assets {
		name := assets[i].Name
		if strings.Contains(name, pair) && isArchive(name) {
			return &assets[i], nil
		}
	}
	return nil, fmt.Errorf("no asset found for %s/%s (expected %s)", runtime.GOOS, runtime.GOARCH, expected)
}

func isArchive(name string) bool {
	return strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".zip")
}
