// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package, then rebuild. Go's
// //go:embed bakes it into the binary, so a rebranded build needs no
// source changes beyond the YAML.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

// Parsed branding values, loaded once on first access.
var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName      string `yaml:"cli_name"`
	DisplayName  string `yaml:"display_name"`
	Description  string `yaml:"description"`
	ManifestFile string `yaml:"manifest_file"`
	HomeDir      string `yaml:"home_dir"`
	EnvPrefix    string `yaml:"env_prefix"`
	GoModule     string `yaml:"go_module"`
	GitHubRepo   string `yaml:"github_repo"`
	PlatformURL  string `yaml:"platform_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:      "skylift",
			DisplayName:  "Skylift",
			Description:  "Validate and ship services from a skylift.yaml manifest",
			ManifestFile: "skylift.yaml",
			HomeDir:      ".skylift",
			EnvPrefix:    "SKYLIFT",
			GoModule:     "github.com/skylift-labs/skylift",
			GitHubRepo:   "skylift-labs/skylift",
			PlatformURL:  "https://api.skylift.dev",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "skylift").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "Skylift").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// ManifestFile returns the default manifest file name (e.g., "skylift.yaml").
func ManifestFile() string { load(); return defaults.ManifestFile }

// HomeDir returns the dot-directory name under $HOME (e.g., ".skylift").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "SKYLIFT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path (e.g., "github.com/skylift-labs/skylift").
// Recorded for forks; not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// GitHubRepo returns the "owner/repo" string (e.g., "skylift-labs/skylift").
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// PlatformURL returns the default platform API base URL.
func PlatformURL() string { load(); return defaults.PlatformURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("TOKEN") → "SKYLIFT_TOKEN".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
