package updater

import (
	"net/http"
	"time"

	"github.com/skylift-labs/skylift/internal/branding"
)

// Release is the subset of a GitHub release the updater acts on.
type Release struct {
	Version   string    `json:"tag_name"`
	TagName   string    `json:"-"`
	Assets    []Asset   `json:"assets"`
	Published time.Time `json:"published_at"`
	HTMLURL   string    `json:"html_url"`
}

// Asset is one downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Updater checks for and installs new CLI versions.
type Updater struct {
	currentVersion string
	httpClient     *http.Client
	mirror         string
}

// Option configures an Updater.
type Option func(*Updater)

// WithHTTPClient overrides the HTTP client, mainly so tests can point the
// updater at a local server.
func WithHTTPClient(c *http.Client) Option {
	return func(u *Updater) {
		u.httpClient = c
	}
}

// WithMirror serves release assets from the given base URL instead of
// GitHub's download hosts.
func WithMirror(mirror string) Option {
	return func(u *Updater) {
		u.mirror = mirror
	}
}

// New returns an updater for a binary currently running currentVersion.
func New(currentVersion string, opts ...Option) *Updater {
	u := &Updater{
		currentVersion: currentVersion,
		httpClient:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// CurrentVersion returns the version this updater was created with.
func (u *Updater) CurrentVersion() string {
	return u.currentVersion
}

// userAgent identifies update traffic in access logs.
func userAgent() string {
	return branding.CLIName() + "-updater"
}
