package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skylift-labs/skylift/internal/manifest"
)

func TestNewScaffoldData(t *testing.T) {
	t.Run("fields pass through", func(t *testing.T) {
		d := NewScaffoldData("url-uploader", "web", 3000)
		if d.Name != "url-uploader" {
			t.Errorf("Name = %q, want %q", d.Name, "url-uploader")
		}
		if d.Type != "web" {
			t.Errorf("Type = %q, want %q", d.Type, "web")
		}
		if d.Port != 3000 {
			t.Errorf("Port = %d, want %d", d.Port, 3000)
		}
	})

	t.Run("zero port gets default", func(t *testing.T) {
		d := NewScaffoldData("queue-worker", "worker", 0)
		if d.Port != 8080 {
			t.Errorf("Port = %d, want %d", d.Port, 8080)
		}
	})
}

func TestGenerateWeb(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "my-api")

	data := NewScaffoldData("my-api", "web", 3000)
	result, err := Generate("web", data, outDir)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	expectedFiles := []string{".dockerignore", "Dockerfile", "skylift.yaml"}
	assertFiles(t, result, expectedFiles)

	manifestContent := readGenerated(t, outDir, "skylift.yaml")
	assertContains(t, manifestContent, "name: my-api")
	assertContains(t, manifestContent, "type: web")
	assertContains(t, manifestContent, "port: 3000")
	assertContains(t, manifestContent, "path: /")

	dockerfileContent := readGenerated(t, outDir, "Dockerfile")
	assertContains(t, dockerfileContent, "EXPOSE 3000")

	assertManifestValid(t, outDir)

	if len(result.Warnings) > 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestGenerateWorker(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "queue-worker")

	data := NewScaffoldData("queue-worker", "worker", 0)
	result, err := Generate("worker", data, outDir)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	expectedFiles := []string{".dockerignore", "Dockerfile", "skylift.yaml"}
	assertFiles(t, result, expectedFiles)

	manifestContent := readGenerated(t, outDir, "skylift.yaml")
	assertContains(t, manifestContent, "name: queue-worker")
	assertContains(t, manifestContent, "type: worker")
	assertNotContains(t, manifestContent, "ports:")
	assertNotContains(t, manifestContent, "routes:")

	dockerfileContent := readGenerated(t, outDir, "Dockerfile")
	assertNotContains(t, dockerfileContent, "EXPOSE")

	assertManifestValid(t, outDir)

	if len(result.Warnings) > 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestGenerateUnknownType(t *testing.T) {
	dir := t.TempDir()
	data := NewScaffoldData("test", "cron", 0)
	_, err := Generate("cron", data, dir)
	if err == nil {
		t.Fatal("expected error for unknown service type")
	}
	if !strings.Contains(err.Error(), "unknown service type") {
		t.Errorf("error should name the bad type, got: %v", err)
	}
}

func TestGenerateManifestExists(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "skylift.yaml"), []byte("kind: Service\n"), 0644)

	data := NewScaffoldData("test", "web", 0)
	_, err := Generate("web", data, dir)
	if err == nil {
		t.Fatal("expected error when manifest already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error should mention existing manifest, got: %v", err)
	}
}

func TestGenerateSkipsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0644)

	data := NewScaffoldData("my-api", "web", 0)
	result, err := Generate("web", data, dir)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	// The pre-existing Dockerfile must survive untouched.
	content := readGenerated(t, dir, "Dockerfile")
	if content != "FROM scratch\n" {
		t.Errorf("existing Dockerfile was overwritten: %q", content)
	}

	if len(result.Skipped) != 1 || result.Skipped[0] != "Dockerfile" {
		t.Errorf("Skipped = %v, want [Dockerfile]", result.Skipped)
	}
	for _, f := range result.Files {
		if f == "Dockerfile" {
			t.Error("Dockerfile should not be listed as written")
		}
	}

	// The manifest is still generated.
	assertManifestValid(t, dir)
}

func TestGenerateInvalidNameWarns(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	data := NewScaffoldData("Bad Name", "web", 0)
	result, err := Generate("web", data, outDir)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if len(result.Warnings) == 0 {
		t.Error("expected validation warnings for an invalid service name")
	}
}

func TestTemplateSetName(t *testing.T) {
	tests := []struct {
		serviceType string
		want        string
		wantErr     bool
	}{
		{"web", "web", false},
		{"worker", "worker", false},
		{"cron", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := templateSetName(tt.serviceType)
		if tt.wantErr {
			if err == nil {
				t.Errorf("templateSetName(%q) expected error", tt.serviceType)
			}
			continue
		}
		if err != nil {
			t.Errorf("templateSetName(%q) error: %v", tt.serviceType, err)
			continue
		}
		if got != tt.want {
			t.Errorf("templateSetName(%q) = %q, want %q", tt.serviceType, got, tt.want)
		}
	}
}

// ─── Test Helpers ──────────────────────────────────────────────────

func readGenerated(t *testing.T, dir, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		t.Fatalf("reading %s: %v", filename, err)
	}
	return string(data)
}

func assertFiles(t *testing.T, result *Result, expected []string) {
	t.Helper()
	if len(result.Files) != len(expected) {
		t.Errorf("got %d files %v, want %d files %v", len(result.Files), result.Files, len(expected), expected)
		return
	}
	for i, f := range expected {
		if result.Files[i] != f {
			t.Errorf("file[%d] = %q, want %q", i, result.Files[i], f)
		}
	}
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("content does not contain %q\n--- content ---\n%s", substr, content)
	}
}

func assertNotContains(t *testing.T, content, substr string) {
	t.Helper()
	if strings.Contains(content, substr) {
		t.Errorf("content should not contain %q", substr)
	}
}

func assertManifestValid(t *testing.T, dir string) {
	t.Helper()
	result, err := manifest.ValidateFile(filepath.Join(dir, "skylift.yaml"))
	if err != nil {
		t.Fatalf("manifest validation error: %v", err)
	}
	if !result.Valid {
		var msgs []string
		for _, issue := range result.Issues() {
			msg := issue.Message
			if issue.Path != "" {
				msg = issue.Path + ": " + msg
			}
			msgs = append(msgs, msg)
		}
		t.Errorf("generated manifest is invalid:\n  %s", strings.Join(msgs, "\n  "))
	}
}
