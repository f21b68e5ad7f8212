package manifest

// Kind discriminates the manifest document type. Service is the only kind
// defined by apiVersion v1.
type Kind string

// KindService is the kind value for deployable service manifests.
const KindService Kind = "Service"

// ServiceType tells the platform how the workload is scheduled and exposed.
type ServiceType string

// Service type constants for the spec.type discriminator field.
const (
	TypeWeb    ServiceType = "web"
	TypeWorker ServiceType = "worker"
)

// Protocol is the transport protocol of an exposed port.
type Protocol string

// Supported port protocols.
const (
	ProtocolTCP Protocol = "TCP"
	ProtocolUDP Protocol = "UDP"
)

// Strategy selects how replicas are replaced during a rollout.
type Strategy string

// Rollout strategy constants for spec.deploy.strategy.
const (
	StrategyRolling  Strategy = "rolling"
	StrategyRecreate Strategy = "recreate"
	StrategyCanary   Strategy = "canary"
)

// RuntimeType selects how the platform turns the build inputs into an image.
type RuntimeType string

// Runtime constants for spec.runtime.type.
const (
	RuntimeDocker    RuntimeType = "docker"
	RuntimeBuildpack RuntimeType = "buildpack"
)

// SupportedAPIVersions contains the apiVersion values this build understands.
var SupportedAPIVersions = []string{"v1"}

// ServiceManifest is the root document of a skylift.yaml file.
type ServiceManifest struct {
	APIVersion string   `yaml:"apiVersion" json:"apiVersion"`
	Kind       Kind     `yaml:"kind" json:"kind"`
	Metadata   Metadata `yaml:"metadata" json:"metadata"`
	Spec       Spec     `yaml:"spec" json:"spec"`
}

// Metadata identifies the deployment unit.
type Metadata struct {
	Name string `yaml:"name" json:"name"`
}

// Spec declares what the platform should run and how.
type Spec struct {
	Type    ServiceType `yaml:"type" json:"type"`
	Env     []EnvVar    `yaml:"env,omitempty" json:"env,omitempty"`
	Ports   []Port      `yaml:"ports,omitempty" json:"ports,omitempty"`
	Routes  []Route     `yaml:"routes,omitempty" json:"routes,omitempty"`
	Deploy  *Deploy     `yaml:"deploy,omitempty" json:"deploy,omitempty"`
	Build   *Build      `yaml:"build,omitempty" json:"build,omitempty"`
	Runtime *Runtime    `yaml:"runtime,omitempty" json:"runtime,omitempty"`
}

// EnvVar is one ordered key/value pair handed to the service environment.
// Values may be literals or platform substitution references such as
// "${secrets.BOT_TOKEN}"; references are detected but never resolved here.
type EnvVar struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// Port exposes a container port on the platform network.
type Port struct {
	Port     int      `yaml:"port" json:"port"`
	Protocol Protocol `yaml:"protocol" json:"protocol"`
}

// Route attaches an HTTP path prefix to a web service.
type Route struct {
	Path string `yaml:"path" json:"path"`
}

// Deploy controls replica counts and rollout behavior.
type Deploy struct {
	MaxPendingDeployments int      `yaml:"maxPendingDeployments,omitempty" json:"maxPendingDeployments,omitempty"`
	MaxReplicas           int      `yaml:"maxReplicas" json:"maxReplicas"`
	MinReplicas           int      `yaml:"minReplicas" json:"minReplicas"`
	Strategy              Strategy `yaml:"strategy,omitempty" json:"strategy,omitempty"`
}

// Build points the image builder at its inputs. Paths are relative to the
// directory containing the manifest.
type Build struct {
	Context    string `yaml:"context,omitempty" json:"context,omitempty"`
	Dockerfile string `yaml:"dockerfile,omitempty" json:"dockerfile,omitempty"`
}

// Runtime selects the image build pipeline.
type Runtime struct {
	Type RuntimeType `yaml:"type" json:"type"`
}

// RuntimeType returns the declared runtime, or RuntimeDocker when the
// runtime block is omitted.
func (m *ServiceManifest) RuntimeType() RuntimeType {
	if m.Spec.Runtime == nil || m.Spec.Runtime.Type == "" {
		return RuntimeDocker
	}
	return m.Spec.Runtime.Type
}

// BuildContext returns the declared build context, or "." when omitted.
func (m *ServiceManifest) BuildContext() string {
	if m.Spec.Build == nil || m.Spec.Build.Context == "" {
		return "."
	}
	return m.Spec.Build.Context
}

// BuildDockerfile returns the dockerfile path relative to the build
// context. Docker services fall back to "Dockerfile" when the field is
// omitted; buildpack services have no dockerfile and return "".
func (m *ServiceManifest) BuildDockerfile() string {
	if m.Spec.Build != nil && m.Spec.Build.Dockerfile != "" {
		return m.Spec.Build.Dockerfile
	}
	if m.RuntimeType() == RuntimeDocker {
		return "Dockerfile"
	}
	return ""
}

// EnvValue looks up an environment value by key, preserving the declared
// order semantics: the first matching entry wins.
func (s *Spec) EnvValue(key string) (string, bool) {
	for _, e := range s.Env {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}
