package manifest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Parse decodes raw manifest bytes into a ServiceManifest without
// validating them. Callers that want the full contract should use Load.
func Parse(data []byte) (*ServiceManifest, error) {
	var m ServiceManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, malformed(err)
	}
	return &m, nil
}

// ParseFile reads and decodes a manifest file without validating it.
func ParseFile(path string) (*ServiceManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

// Load parses, validates, and defaults a manifest document in one pass.
// On success the returned manifest has every default filled in and is safe
// to hand to the platform unchanged. On failure the error wraps exactly
// one of ErrMalformedInput, ErrSchemaViolation, or ErrInvariantViolation.
func Load(data []byte) (*ServiceManifest, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if len(result.Schema) > 0 {
		return nil, violation(ErrSchemaViolation, result.Schema)
	}
	if len(result.Invariants) > 0 {
		return nil, violation(ErrInvariantViolation, result.Invariants)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return ApplyDefaults(m)
}

// LoadFile reads a manifest file and runs the full Load pipeline on it.
func LoadFile(path string) (*ServiceManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading manifest %s: %w", path, err)
	}
	return m, nil
}

// Marshal serializes a manifest back to YAML. Marshal after Load yields a
// document that loads back to the same manifest.
func Marshal(m *ServiceManifest) ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	return data, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
