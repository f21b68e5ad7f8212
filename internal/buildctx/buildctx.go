// Package buildctx inspects the build context a manifest points at before
// anything is handed to the platform. It honors the context's
// .dockerignore the same way the builder will, so preflight numbers match
// what actually gets uploaded.
package buildctx

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	ignore "github.com/codeskyblue/dockerignore"
	"github.com/sirupsen/logrus"

	"github.com/skylift-labs/skylift/internal/manifest"
)

var log = logrus.WithField("component", "buildctx")

// IgnoreFile is the pattern file honored inside a build context.
const IgnoreFile = ".dockerignore"

// Summary describes what an upload of the build context would contain.
type Summary struct {
	Root       string // resolved build context directory
	Dockerfile string // dockerfile path relative to the context, "" for buildpack
	FileCount  int    // files that would be sent
	TotalSize  int64  // bytes across those files
	Ignored    int    // entries excluded by .dockerignore
}

// Inspect resolves the manifest's build context against baseDir (the
// directory holding the manifest), walks it with .dockerignore applied,
// and returns the resulting summary.
func Inspect(baseDir string, m *manifest.ServiceManifest) (*Summary, error) {
	root := filepath.Join(baseDir, m.BuildContext())
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("resolving build context %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("build context %s is not a directory", root)
	}

	patterns, err := readIgnorePatterns(root)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Root: root, Dockerfile: m.BuildDockerfile()}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		matched, err := ignore.Matches(rel, patterns)
		if err != nil {
			return fmt.Errorf("matching %s against %s: %w", rel, IgnoreFile, err)
		}
		if matched {
			summary.Ignored++
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		summary.FileCount++
		summary.TotalSize += fi.Size()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking build context %s: %w", root, err)
	}

	log.WithFields(logrus.Fields{
		"context": root,
		"files":   summary.FileCount,
		"ignored": summary.Ignored,
	}).Debug("scanned build context")
	return summary, nil
}

// CheckDockerfile verifies the dockerfile the manifest resolves to exists
// inside the build context. Buildpack services have no dockerfile and
// always pass.
func CheckDockerfile(baseDir string, m *manifest.ServiceManifest) error {
	df := m.BuildDockerfile()
	if df == "" {
		return nil
	}

	path := filepath.Join(baseDir, m.BuildContext(), df)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("dockerfile %s not found in build context", df)
		}
		return fmt.Errorf("checking dockerfile %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("dockerfile %s is a directory", df)
	}
	return nil
}

// readIgnorePatterns loads the context's .dockerignore when present. A
// missing file means nothing is ignored.
func readIgnorePatterns(root string) ([]string, error) {
	f, err := os.Open(filepath.Join(root, IgnoreFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", IgnoreFile, err)
	}
	defer f.Close()

	patterns, err := ignore.ReadIgnore(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", IgnoreFile, err)
	}
	return patterns, nil
}
