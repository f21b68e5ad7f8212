package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/skylift-labs/skylift/internal/branding"
	"github.com/skylift-labs/skylift/internal/manifest"
)

// The all: prefix pulls in dotfiles such as .dockerignore.tmpl.
//
//go:embed all:scaffolds
var scaffoldFS embed.FS

// ScaffoldData holds all template variables available to scaffold templates.
type ScaffoldData struct {
	Name string // service name, e.g. "url-uploader"
	Type string // "web" or "worker"
	Port int    // listen port (web only)
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Skipped   []string
	Warnings  []string
}

// NewScaffoldData creates a ScaffoldData with defaults filled in.
func NewScaffoldData(name, serviceType string, port int) *ScaffoldData {
	if port <= 0 {
		port = 8080
	}
	return &ScaffoldData{
		Name: name,
		Type: serviceType,
		Port: port,
	}
}

// templateSetName returns the embedded directory name for a service type.
func templateSetName(serviceType string) (string, error) {
	switch serviceType {
	case string(manifest.TypeWeb), string(manifest.TypeWorker):
		return serviceType, nil
	}
	return "", fmt.Errorf("unknown service type %q (expected web or worker)", serviceType)
}

// Generate writes a starter project for the given service type into outputDir.
//
// A manifest already present in outputDir is a hard error; any other scaffold
// file that already exists is left untouched and reported in Result.Skipped,
// so running init inside an existing project is safe.
func Generate(serviceType string, data *ScaffoldData, outputDir string) (*Result, error) {
	setName, err := templateSetName(serviceType)
	if err != nil {
		return nil, err
	}
	templatesDir := "scaffolds/" + setName

	entries, err := fs.ReadDir(scaffoldFS, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", setName, err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	manifestPath := filepath.Join(outputDir, branding.ManifestFile())
	if _, err := os.Stat(manifestPath); err == nil {
		return nil, fmt.Errorf("%s already exists in %s; edit it in place instead", branding.ManifestFile(), outputDir)
	}

	result := &Result{
		OutputDir: outputDir,
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		tmplPath := templatesDir + "/" + entry.Name()
		tmplBytes, err := fs.ReadFile(scaffoldFS, tmplPath)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
		}

		// Strip .tmpl extension for the output filename.
		outName := strings.TrimSuffix(entry.Name(), ".tmpl")
		outPath := filepath.Join(outputDir, outName)

		// Never overwrite files the project already has.
		if outName != branding.ManifestFile() {
			if _, err := os.Stat(outPath); err == nil {
				result.Skipped = append(result.Skipped, outName)
				continue
			}
		}

		// Parse and execute the Go template.
		tmpl, err := template.New(entry.Name()).Parse(string(tmplBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", entry.Name(), err)
		}

		if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}

		result.Files = append(result.Files, outName)
	}

	// Validate the generated manifest against JSON Schema.
	if _, err := os.Stat(manifestPath); err == nil {
		valResult, valErr := manifest.ValidateFile(manifestPath)
		if valErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Could not validate manifest: %v", valErr))
		} else if !valResult.Valid {
			for _, issue := range valResult.Issues() {
				msg := issue.Message
				if issue.Path != "" {
					msg = issue.Path + ": " + msg
				}
				result.Warnings = append(result.Warnings, msg)
			}
		}
	}

	return result, nil
}
