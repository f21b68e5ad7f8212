// Package config manages user-level settings stored at ~/.skylift/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the platform URL and API token used by the deploy commands.
package config
