package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunInspectShowsDefaults(t *testing.T) {
	path := writeManifestFile(t, deployTestManifest)

	var out bytes.Buffer
	if err := runInspect(&out, path, false, false); err != nil {
		t.Fatalf("runInspect failed: %v", err)
	}

	got := out.String()
	// The input manifest omits these; inspect must show the filled-in values.
	for _, want := range []string{"strategy: rolling", "context: .", "dockerfile: Dockerfile", "type: docker"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing default %q:\n%s", want, got)
		}
	}
}

func TestRunInspectJSON(t *testing.T) {
	path := writeManifestFile(t, deployTestManifest)

	var out bytes.Buffer
	if err := runInspect(&out, path, true, false); err != nil {
		t.Fatalf("runInspect failed: %v", err)
	}

	var doc struct {
		Spec struct {
			Deploy struct {
				Strategy string `json:"strategy"`
			} `json:"deploy"`
			Runtime struct {
				Type string `json:"type"`
			} `json:"runtime"`
		} `json:"spec"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out.String())
	}
	if doc.Spec.Deploy.Strategy != "rolling" {
		t.Errorf("strategy = %q, want %q", doc.Spec.Deploy.Strategy, "rolling")
	}
	if doc.Spec.Runtime.Type != "docker" {
		t.Errorf("runtime type = %q, want %q", doc.Spec.Runtime.Type, "docker")
	}
}

func TestRunInspectWithContext(t *testing.T) {
	dir := writeDeployProject(t)
	if err := os.WriteFile(filepath.Join(dir, "app.log"), []byte("noise\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".dockerignore"), []byte("*.log\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := runInspect(&out, filepath.Join(dir, "skylift.yaml"), false, true); err != nil {
		t.Fatalf("runInspect failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Build context:") {
		t.Errorf("output missing build context summary:\n%s", got)
	}
	if !strings.Contains(got, "Ignored:       1") {
		t.Errorf("output should report 1 ignored entry:\n%s", got)
	}
}

func TestRunInspectInvalidManifest(t *testing.T) {
	path := writeManifestFile(t, strings.Replace(deployTestManifest, "kind: Service", "kind: Pod", 1))

	var out bytes.Buffer
	if err := runInspect(&out, path, false, false); err == nil {
		t.Fatal("expected error for invalid manifest")
	}
}
