package updater

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	cacheFileName = "version-check.json"

	// DefaultCacheMaxAge is how long a version check stays fresh before
	// the background refresh kicks in again.
	DefaultCacheMaxAge = 24 * time.Hour
)

// VersionCache is the on-disk record of the last release check. It lets
// every command print the update banner without hitting the network.
type VersionCache struct {
	LatestVersion   string    `json:"latest_version"`
	CurrentVersion  string    `json:"current_version"`
	CheckedAt       time.Time `json:"checked_at"`
	UpdateAvailable bool      `json:"update_available"`
}

func cachePath(configDir string) string {
	return filepath.Join(configDir, cacheFileName)
}

// LoadCache reads the version cache from the config directory. A missing
// file is not an error; it returns (nil, nil) so first runs stay quiet.
func LoadCache(configDir string) (*VersionCache, error) {
	data, err := os.ReadFile(cachePath(configDir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading version cache: %w", err)
	}

	cache := new(VersionCache)
	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("parsing version cache: %w", err)
	}
	return cache, nil
}

// SaveCache writes the version cache, creating the config directory if
// it does not exist yet.
func SaveCache(configDir string, cache *VersionCache) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling version cache: %w", err)
	}
	if err := os.WriteFile(cachePath(configDir), data, 0644); err != nil {
		return fmt.Errorf("writing version cache: %w", err)
	}
	return nil
}

// IsCacheStale reports whether the cache needs a refresh. A nil cache is
// always stale.
func IsCacheStale(cache *VersionCache, maxAge time.Duration) bool {
	return cache == nil || time.Since(cache.CheckedAt) > maxAge
}
