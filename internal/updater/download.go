package updater

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DownloadBinary fetches the release archive for the running platform
// into destDir and returns its path. Progress goes to stderr when the
// server announces a content length.
func (u *Updater) DownloadBinary(release *Release, destDir string) (string, error) {
	asset, err := SelectAssetForPlatform(release.Assets)
	if err != nil {
		return "", err
	}

	resp, err := u.getAsset(asset.DownloadURL)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", asset.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	destPath := filepath.Join(destDir, asset.Name)
	f, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}
	defer f.Close()

	var dst io.Writer = f
	if resp.ContentLength > 0 {
		pw := &progressWriter{total: resp.ContentLength, out: os.Stderr, lastPercent: -1}
		dst = io.MultiWriter(f, pw)
		defer pw.finish()
	}
	if _, err := io.Copy(dst, resp.Body); err != nil {
		return "", fmt.Errorf("writing download: %w", err)
	}
	return destPath, nil
}

// VerifyChecksum checks the archive against the release's checksums.txt,
// where each line is "sha256  filename".
func (u *Updater) VerifyChecksum(release *Release, archivePath string) error {
	var sums *Asset
	for i := range release.Assets {
		if release.Assets[i].Name == "checksums.txt" {
			sums = &release.Assets[i]
			break
		}
	}
	if sums == nil {
		return fmt.Errorf("checksums.txt not found in release assets")
	}

	resp, err := u.getAsset(sums.DownloadURL)
	if err != nil {
		return fmt.Errorf("downloading checksums: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("checksums download returned status %d", resp.StatusCode)
	}

	want, err := findChecksum(resp.Body, filepath.Base(archivePath))
	if err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive for checksum: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("computing checksum: %w", err)
	}
	got := hex.EncodeToString(h.Sum(nil))
	if got != want {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", want, got)
	}
	return nil
}

// ExtractBinary pulls the CLI binary out of a downloaded tar.gz or zip
// archive and returns the extracted path.
func ExtractBinary(archivePath, destDir string) (string, error) {
	if strings.HasSuffix(archivePath, ".zip") {
		return extractFromZip(archivePath, destDir)
	}
	return extractFromTarGz(archivePath, destDir)
}

// getAsset issues a GET for a release asset with the updater's identity.
func (u *Updater) getAsset(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent())
	return u.httpClient.Do(req)
}

// findChecksum scans a checksums document for the named file's hash.
func findChecksum(r io.Reader, name string) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 2 && fields[1] == name {
			return fields[0], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading checksums: %w", err)
	}
	return "", fmt.Errorf("no checksum found for %s in checksums.txt", name)
}

func extractFromTarGz(archivePath, destDir string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading tar entry: %w", err)
		}
		if base := filepath.Base(hdr.Name); isReleaseBinary(base) {
			return writeExecutable(filepath.Join(destDir, base), tr)
		}
	}
	return "", fmt.Errorf("%s binary not found in archive", BinaryName())
}

func extractFromZip(archivePath, destDir string) (string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("opening zip archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		base := filepath.Base(f.Name)
		if !isReleaseBinary(base) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("opening zip entry: %w", err)
		}
		path, err := writeExecutable(filepath.Join(destDir, base), rc)
		rc.Close()
		return path, err
	}
	return "", fmt.Errorf("%s binary not found in zip archive", BinaryName())
}

// writeExecutable streams an archive entry to destPath with the execute
// bit set.
func writeExecutable(destPath string, r io.Reader) (string, error) {
	out, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return "", fmt.Errorf("creating binary file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("extracting binary: %w", err)
	}
	return destPath, nil
}

// isReleaseBinary matches the archive entry that holds the CLI itself,
// with or without the Windows suffix.
func isReleaseBinary(baseName string) bool {
	want := strings.TrimSuffix(BinaryName(), ".exe")
	return strings.TrimSuffix(baseName, ".exe") == want
}

// progressWriter prints download progress as the stream passes through.
type progressWriter struct {
	total       int64
	written     int64
	lastPercent int
	out         io.Writer
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if percent := int(p.written * 100 / p.total); percent != p.lastPercent {
		fmt.Fprintf(p.out, "\rDownloading... %d%%", percent)
		p.lastPercent = percent
	}
	return len(b), nil
}

func (p *progressWriter) finish() {
	fmt.Fprintln(p.out)
}
