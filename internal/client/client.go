// Package client talks to the Skylift platform API. It only wraps the
// endpoints the CLI needs: creating deployments, reading service state,
// and the version handshake. Requests carry an idempotency key so a retry
// after a dropped connection can never double-deploy.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skylift-labs/skylift/internal/branding"
	"github.com/skylift-labs/skylift/internal/config"
	"github.com/skylift-labs/skylift/internal/manifest"
)

var log = logrus.WithField("component", "client")

// Platform failure classes, mapped from response status codes.
var (
	// ErrUnauthorized means the platform rejected the token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means the named service does not exist on the platform.
	ErrNotFound = errors.New("service not found")

	// ErrPendingLimit means the service already has maxPendingDeployments
	// rollouts in flight.
	ErrPendingLimit = errors.New("pending deployment limit reached")

	// ErrRejected means the platform's own validation refused the
	// manifest even though it passed locally.
	ErrRejected = errors.New("manifest rejected by platform")
)

// Client wraps the platform REST API.
type Client struct {
	rest *resty.Client
}

// Deployment is the platform's record of one rollout.
type Deployment struct {
	ID        string `json:"id"`
	Service   string `json:"service"`
	Status    string `json:"status"`
	Strategy  string `json:"strategy"`
	CreatedAt int64  `json:"createdAt"` // unix seconds
}

// Service is the platform's view of a deployed service.
type Service struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Replicas  int    `json:"replicas"`
	Status    string `json:"status"`
	UpdatedAt int64  `json:"updatedAt"` // unix seconds
}

// VersionInfo is the platform's version handshake payload.
type VersionInfo struct {
	Platform    string   `json:"platform"`    // platform build version
	LatestCLI   string   `json:"latestCli"`   // newest released CLI version
	APIVersions []string `json:"apiVersions"` // manifest apiVersions the platform accepts
}

// DeployRequest is the payload for creating a deployment.
type DeployRequest struct {
	Manifest *manifest.ServiceManifest `json:"manifest"`
	Build    *BuildSummary             `json:"build,omitempty"`
}

// BuildSummary tells the platform what the upload will contain so it can
// reject oversized contexts before bytes move.
type BuildSummary struct {
	FileCount int   `json:"fileCount"`
	TotalSize int64 `json:"totalSize"`
}

// apiError is the platform's error body shape.
type apiError struct {
	Detail string `json:"detail"`
}

// New builds a client against the given base URL with the given token.
func New(baseURL, token string, verbose bool) *Client {
	rest := resty.New()
	rest.SetBaseURL(baseURL)
	rest.SetHeader("Authorization", "Token "+token)
	rest.SetHeader("User-Agent", branding.CLIName())
	rest.SetDebug(verbose)
	return &Client{rest: rest}
}

// FromConfig builds a client from the stored settings. The URL always has
// a built-in default; a missing token is the one thing the user must fix.
func FromConfig(verbose bool) (*Client, error) {
	token := config.PlatformToken()
	if token == "" {
		return nil, fmt.Errorf("platform token is not set, maybe try `%s config set %s <token>`",
			branding.CLIName(), config.KeyPlatformToken)
	}
	return New(config.PlatformURL(), token, verbose), nil
}

// HTTPClient exposes the underlying transport, mainly so tests can
// intercept it.
func (c *Client) HTTPClient() *http.Client {
	return c.rest.GetClient()
}

// CreateDeployment submits a manifest for rollout. The server either
// accepts it with 201 and returns the created deployment, or refuses
// without side effects.
func (c *Client) CreateDeployment(name string, req *DeployRequest) (*Deployment, error) {
	var out Deployment
	resp, err := c.rest.R().
		SetHeader("X-Idempotency-Key", uuid.NewString()).
		SetBody(req).
		SetResult(&out).
		Post(fmt.Sprintf("/v1/services/%s/deployments", name))
	if err != nil {
		return nil, fmt.Errorf("posting deployment for %s: %w", name, err)
	}

	switch resp.StatusCode() {
	case http.StatusCreated:
		log.WithFields(logrus.Fields{"service": name, "deployment": out.ID}).Debug("deployment created")
		return &out, nil
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case http.StatusConflict:
		return nil, fmt.Errorf("%w: %s", ErrPendingLimit, detail(resp))
	case http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s", ErrRejected, detail(resp))
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.Body())
	}
}

// GetService fetches the platform's current view of one service.
func (c *Client) GetService(name string) (*Service, error) {
	var out Service
	resp, err := c.rest.R().
		SetResult(&out).
		Get(fmt.Sprintf("/v1/services/%s", name))
	if err != nil {
		return nil, fmt.Errorf("fetching service %s: %w", name, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return &out, nil
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.Body())
	}
}

// ListDeployments fetches the rollout history of one service, newest
// first.
func (c *Client) ListDeployments(name string) ([]Deployment, error) {
	var out []Deployment
	resp, err := c.rest.R().
		SetResult(&out).
		Get(fmt.Sprintf("/v1/services/%s/deployments", name))
	if err != nil {
		return nil, fmt.Errorf("fetching deployments for %s: %w", name, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return out, nil
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.Body())
	}
}

// PlatformVersion runs the version handshake. It needs no token, so it
// doubles as the doctor's reachability probe.
func (c *Client) PlatformVersion() (*VersionInfo, error) {
	var out VersionInfo
	resp, err := c.rest.R().
		SetResult(&out).
		Get("/v1/version")
	if err != nil {
		return nil, fmt.Errorf("fetching platform version: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.Body())
	}
	return &out, nil
}

// AcceptsAPIVersion reports whether the platform accepts manifests of the
// given apiVersion.
func (v *VersionInfo) AcceptsAPIVersion(version string) bool {
	for _, av := range v.APIVersions {
		if av == version {
			return true
		}
	}
	return false
}

// detail extracts the platform's error detail from a response body,
// falling back to the raw body.
func detail(resp *resty.Response) string {
	var e apiError
	if err := json.Unmarshal(resp.Body(), &e); err == nil && e.Detail != "" {
		return e.Detail
	}
	return strings.TrimSpace(string(resp.Body()))
}
