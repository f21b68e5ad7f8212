package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunManifestCheckValid(t *testing.T) {
	path := writeManifestFile(t, deployTestManifest)

	var out bytes.Buffer
	if err := runManifestCheck(&out, path); err != nil {
		t.Fatalf("runManifestCheck failed: %v", err)
	}

	if !strings.Contains(out.String(), "[ OK ] Valid web manifest: url-uploader") {
		t.Errorf("output = %q, want OK line", out.String())
	}
}

func TestRunManifestCheckInvalid(t *testing.T) {
	bad := strings.Replace(deployTestManifest, "port: 8080", "port: 70000", 1)
	path := writeManifestFile(t, bad)

	var out bytes.Buffer
	err := runManifestCheck(&out, path)
	if err == nil {
		t.Fatal("expected error for invalid manifest")
	}

	got := out.String()
	if !strings.Contains(got, "[FAIL]") {
		t.Errorf("output missing FAIL marker:\n%s", got)
	}
	if !strings.Contains(got, "/spec/ports/0/port") {
		t.Errorf("output missing issue path:\n%s", got)
	}
}

func TestRunManifestCheckMissingFile(t *testing.T) {
	var out bytes.Buffer
	err := runManifestCheck(&out, "no-such-manifest.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(out.String(), "[FAIL]") {
		t.Errorf("output missing FAIL marker:\n%s", out.String())
	}
}

func TestCheckBinary(t *testing.T) {
	var out bytes.Buffer
	checkBinary(&out, "definitely-not-installed-anywhere")
	if !strings.Contains(out.String(), "[MISS]") {
		t.Errorf("output = %q, want MISS marker", out.String())
	}
}
