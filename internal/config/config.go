package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skylift-labs/skylift/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Well-known settings keys. The config command accepts arbitrary keys, but
// these are the ones the CLI itself reads.
const (
	KeyPlatformURL   = "platform.url"
	KeyPlatformToken = "platform.token"
)

// Dir returns the path to the Skylift config directory (~/.skylift/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.skylift/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Dotted keys map to underscored env vars, so platform.token can come
// from SKYLIFT_PLATFORM_TOKEN.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// PlatformURL returns the configured platform API base URL, falling back
// to the built-in default.
func PlatformURL() string {
	if url := Get(KeyPlatformURL); url != "" {
		return url
	}
	return branding.PlatformURL()
}

// PlatformToken returns the configured platform API token, or "" when the
// user has not logged in.
func PlatformToken() string {
	return Get(KeyPlatformToken)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	// The file may hold the platform token; keep it owner-only.
	if err := os.Chmod(configFile, 0600); err != nil {
		return fmt.Errorf("restricting config file permissions: %w", err)
	}

	return nil
}
