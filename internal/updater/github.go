package updater

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/skylift-labs/skylift/internal/branding"
)

const githubAPIBase = "https://api.github.com"

// CheckLatestVersion resolves the newest published release.
func (u *Updater) CheckLatestVersion() (*Release, error) {
	return u.fetchRelease(githubAPIBase + "/repos/" + branding.GitHubRepo() + "/releases/latest")
}

// CheckSpecificVersion resolves the release for one tag. The tag may be
// given with or without the leading "v".
func (u *Updater) CheckSpecificVersion(tag string) (*Release, error) {
	if !strings.HasPrefix(tag, "v") {
		tag = "v" + tag
	}
	return u.fetchRelease(githubAPIBase + "/repos/" + branding.GitHubRepo() + "/releases/tags/" + tag)
}

func (u *Updater) fetchRelease(url string) (*Release, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent())
	// An optional token raises the unauthenticated rate limit.
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "token "+token)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching release: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("release not found")
	case http.StatusForbidden:
		return nil, fmt.Errorf("GitHub API rate limit exceeded. Set GITHUB_TOKEN for higher limits")
	default:
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("parsing release JSON: %w", err)
	}
	release.TagName = release.Version

	// A mirror serves the same asset names under its own base URL.
	if u.mirror != "" {
		base := strings.TrimRight(u.mirror, "/")
		for i := range release.Assets {
			release.Assets[i].DownloadURL = base + "/" + release.Assets[i].Name
		}
	}
	return &release, nil
}
