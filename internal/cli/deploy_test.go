package cli

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"

	"github.com/skylift-labs/skylift/internal/client"
	"github.com/skylift-labs/skylift/internal/manifest"
)

const deployTestManifest = `apiVersion: v1
kind: Service
metadata:
  name: url-uploader
spec:
  type: web
  ports:
    - port: 8080
      protocol: TCP
  deploy:
    maxPendingDeployments: 1
    minReplicas: 1
    maxReplicas: 2
`

// writeDeployProject lays out a minimal deployable project directory.
func writeDeployProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "skylift.yaml"), []byte(deployTestManifest), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM alpine\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func newTestClient(t *testing.T) *client.Client {
	t.Helper()
	c := client.New("https://platform.test", "test-token", false)
	httpmock.ActivateNonDefault(c.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestRunDeploy(t *testing.T) {
	dir := writeDeployProject(t)
	c := newTestClient(t)

	httpmock.RegisterResponder("POST", "/v1/services/url-uploader/deployments",
		httpmock.NewJsonResponderOrPanic(http.StatusCreated, client.Deployment{
			ID:      "dep-1",
			Service: "url-uploader",
			Status:  "pending",
		}))

	var stdin bytes.Buffer
	stdin.Write([]byte("y\n"))

	var out bytes.Buffer
	ctx := &deployCmdContext{client: c, stdin: &stdin, out: &out}

	if err := runDeploy(ctx, filepath.Join(dir, "skylift.yaml"), false); err != nil {
		t.Fatalf("runDeploy failed: %v", err)
	}

	if got := httpmock.GetTotalCallCount(); got != 1 {
		t.Errorf("API call count = %d, want 1", got)
	}
	if !strings.Contains(out.String(), "Deployment dep-1 created") {
		t.Errorf("output missing creation message:\n%s", out.String())
	}
}

func TestRunDeployAborted(t *testing.T) {
	dir := writeDeployProject(t)
	c := newTestClient(t)

	var stdin bytes.Buffer
	stdin.Write([]byte("n\n"))

	var out bytes.Buffer
	ctx := &deployCmdContext{client: c, stdin: &stdin, out: &out}

	if err := runDeploy(ctx, filepath.Join(dir, "skylift.yaml"), false); err != nil {
		t.Fatalf("runDeploy failed: %v", err)
	}

	if got := httpmock.GetTotalCallCount(); got != 0 {
		t.Errorf("API call count = %d, want 0 after abort", got)
	}
	if !strings.Contains(out.String(), "Deployment aborted") {
		t.Errorf("output missing abort message:\n%s", out.String())
	}
}

func TestRunDeployYesSkipsPrompt(t *testing.T) {
	dir := writeDeployProject(t)
	c := newTestClient(t)

	httpmock.RegisterResponder("POST", "/v1/services/url-uploader/deployments",
		httpmock.NewJsonResponderOrPanic(http.StatusCreated, client.Deployment{ID: "dep-2"}))

	var out bytes.Buffer
	// Empty stdin: the prompt must not be consulted at all.
	ctx := &deployCmdContext{client: c, stdin: strings.NewReader(""), out: &out}

	if err := runDeploy(ctx, filepath.Join(dir, "skylift.yaml"), true); err != nil {
		t.Fatalf("runDeploy failed: %v", err)
	}

	if got := httpmock.GetTotalCallCount(); got != 1 {
		t.Errorf("API call count = %d, want 1", got)
	}
	if strings.Contains(out.String(), "(y/N)") {
		t.Error("prompt was printed despite --yes")
	}
}

func TestRunDeployPendingLimit(t *testing.T) {
	dir := writeDeployProject(t)
	c := newTestClient(t)

	httpmock.RegisterResponder("POST", "/v1/services/url-uploader/deployments",
		httpmock.NewJsonResponderOrPanic(http.StatusConflict, map[string]string{
			"detail": "1 deployment already pending",
		}))

	var stdin bytes.Buffer
	stdin.Write([]byte("y\n"))

	var out bytes.Buffer
	ctx := &deployCmdContext{client: c, stdin: &stdin, out: &out}

	err := runDeploy(ctx, filepath.Join(dir, "skylift.yaml"), false)
	if !errors.Is(err, client.ErrPendingLimit) {
		t.Errorf("error = %v, want ErrPendingLimit", err)
	}
}

func TestRunDeployInvalidManifest(t *testing.T) {
	dir := t.TempDir()
	bad := strings.Replace(deployTestManifest, "minReplicas: 1", "minReplicas: 5", 1)
	if err := os.WriteFile(filepath.Join(dir, "skylift.yaml"), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}

	c := newTestClient(t)

	var out bytes.Buffer
	ctx := &deployCmdContext{client: c, stdin: strings.NewReader("y\n"), out: &out}

	err := runDeploy(ctx, filepath.Join(dir, "skylift.yaml"), true)
	if !errors.Is(err, manifest.ErrInvariantViolation) {
		t.Errorf("error = %v, want ErrInvariantViolation", err)
	}
	if got := httpmock.GetTotalCallCount(); got != 0 {
		t.Errorf("API call count = %d, want 0 for invalid manifest", got)
	}
}

func TestRunDeployMissingDockerfile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "skylift.yaml"), []byte(deployTestManifest), 0644); err != nil {
		t.Fatal(err)
	}

	c := newTestClient(t)

	var out bytes.Buffer
	ctx := &deployCmdContext{client: c, stdin: strings.NewReader("y\n"), out: &out}

	err := runDeploy(ctx, filepath.Join(dir, "skylift.yaml"), true)
	if err == nil {
		t.Fatal("expected error for missing dockerfile")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want dockerfile-not-found", err)
	}
	if got := httpmock.GetTotalCallCount(); got != 0 {
		t.Errorf("API call count = %d, want 0 when preflight fails", got)
	}
}
