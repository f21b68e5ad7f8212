//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // overrides $HOME so ~/.skylift never touches the real one
	ProjectDir string // a service project directory
}

// setupTestEnv creates isolated temp directories and points $HOME at one of
// them so config and cache files are sandboxed. The env var is restored
// after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		ProjectDir: t.TempDir(),
	}

	t.Setenv("HOME", env.HomeDir)

	return env
}

// writeFile writes content to path, creating parent directories as needed.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// writeWebProject lays out a deployable web service project: manifest,
// Dockerfile, .dockerignore, and a few source files.
func writeWebProject(t *testing.T, dir string) {
	t.Helper()

	writeFile(t, filepath.Join(dir, "skylift.yaml"), `apiVersion: v1
kind: Service
metadata:
  name: url-uploader
spec:
  type: web
  env:
    - key: BOT_TOKEN
      value: ${secrets.BOT_TOKEN}
    - key: OWNER_ID
      value: "7351948"
  ports:
    - port: 8080
      protocol: TCP
  routes:
    - path: /
  deploy:
    maxPendingDeployments: 1
    minReplicas: 1
    maxReplicas: 2
    strategy: rolling
`)
	writeFile(t, filepath.Join(dir, "Dockerfile"), "FROM alpine:3.20\nCOPY . /app\nCMD [\"/app/run\"]\n")
	writeFile(t, filepath.Join(dir, ".dockerignore"), "*.log\nnode_modules\n")
	writeFile(t, filepath.Join(dir, "main.py"), "print('hello')\n")
	writeFile(t, filepath.Join(dir, "debug.log"), "noise\n")
	writeFile(t, filepath.Join(dir, "node_modules/left-pad/index.js"), "module.exports = s => s\n")
}

// ─── Assertions ────────────────────────────────────────────────────

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
