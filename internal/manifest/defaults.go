package manifest

import (
	_ "embed"
	"fmt"

	"github.com/imdario/mergo"
	"github.com/jinzhu/copier"
	"go.yaml.in/yaml/v3"
)

//go:embed defaults.yaml
var defaultsBytes []byte

// defaultManifest returns the platform defaults as a partial manifest.
// Parsed fresh on every call so callers can never mutate a shared copy.
func defaultManifest() (*ServiceManifest, error) {
	var d ServiceManifest
	if err := yaml.Unmarshal(defaultsBytes, &d); err != nil {
		// The embedded defaults ship with the binary; failing to parse
		// them is a build defect, not a user error.
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return &d, nil
}

// ApplyDefaults returns a copy of m with the platform defaults filled into
// unset fields. The given manifest is left untouched. Explicit values,
// including explicit zeroes in the deploy block, always win over defaults.
func ApplyDefaults(m *ServiceManifest) (*ServiceManifest, error) {
	// DeepCopy so the merge below can never reach back into m through a
	// shared pointer block.
	out := ServiceManifest{}
	if err := copier.CopyWithOption(&out, m, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copying manifest: %w", err)
	}

	defaults, err := defaultManifest()
	if err != nil {
		return nil, err
	}
	if err := mergo.Merge(&out, defaults); err != nil {
		return nil, fmt.Errorf("merging defaults: %w", err)
	}

	// The dockerfile default depends on the runtime, which mergo cannot
	// express: docker builds get "Dockerfile", buildpack builds get none.
	if out.RuntimeType() == RuntimeDocker && out.Spec.Build.Dockerfile == "" {
		out.Spec.Build.Dockerfile = "Dockerfile"
	}
	return &out, nil
}
