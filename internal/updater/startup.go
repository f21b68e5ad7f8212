package updater

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/skylift-labs/skylift/internal/branding"
)

// CheckAndPrintBanner shows the update banner when the cached release
// check says a newer version exists, then refreshes a stale cache in the
// background. It never blocks and never surfaces errors; a broken cache
// just means no banner this run. Setting SKYLIFT_NO_UPDATE_CHECK skips
// both the banner and the refresh, which CI environments generally want.
func (u *Updater) CheckAndPrintBanner(w io.Writer, configDir string) {
	if os.Getenv(branding.EnvVar("NO_UPDATE_CHECK")) != "" {
		return
	}

	cache, err := LoadCache(configDir)
	if err != nil {
		return
	}
	if cache != nil && cache.UpdateAvailable {
		PrintUpdateBanner(w, cache.CurrentVersion, cache.LatestVersion)
	}
	if IsCacheStale(cache, DefaultCacheMaxAge) {
		go u.refreshCache(configDir)
	}
}

// PrintUpdateBanner writes the update notification to w.
func PrintUpdateBanner(w io.Writer, current, latest string) {
	fmt.Fprintf(w, "\nUpdate available: %s -> %s\n", current, latest)
	fmt.Fprintf(w, "    Run `%s update` to upgrade\n\n", branding.CLIName())
}

// refreshCache queries GitHub for the latest release and records the
// result. It runs detached from any command, so failures are dropped;
// the next stale check will simply try again.
func (u *Updater) refreshCache(configDir string) {
	release, err := u.CheckLatestVersion()
	if err != nil {
		return
	}
	available, err := IsUpdateAvailable(u.currentVersion, release.Version)
	if err != nil {
		return
	}
	_ = SaveCache(configDir, &VersionCache{
		LatestVersion:   release.Version,
		CurrentVersion:  u.currentVersion,
		CheckedAt:       time.Now(),
		UpdateAvailable: available,
	})
}
