package updater

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions orders two version strings by semver precedence: -1
// when current is behind latest, 0 when equal, 1 when ahead. A leading
// "v" on either side is tolerated.
func CompareVersions(current, latest string) (int, error) {
	cv, err := parseSemver("current", current)
	if err != nil {
		return 0, err
	}
	lv, err := parseSemver("latest", latest)
	if err != nil {
		return 0, err
	}
	return cv.Compare(lv), nil
}

// IsUpdateAvailable reports whether latest is strictly newer than current.
func IsUpdateAvailable(current, latest string) (bool, error) {
	cmp, err := CompareVersions(current, latest)
	if err != nil {
		return false, err
	}
	return cmp < 0, nil
}

func parseSemver(role, version string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		// Development builds carry versions like "dev" that never
		// parse; callers treat that as "cannot compare".
		return nil, fmt.Errorf("parsing %s version %q: %w", role, version, err)
	}
	return v, nil
}
