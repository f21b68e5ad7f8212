package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/skylift-labs/skylift/internal/branding"
)

// verifyTimeout bounds how long a freshly installed binary may take to
// report its version.
const verifyTimeout = 5 * time.Second

// ReplaceBinary swaps the running binary at currentPath for the one at
// newPath. The old binary is kept as a backup until the new one proves
// it can run; any failure restores the backup.
func ReplaceBinary(newPath, currentPath, expectedVersion string) error {
	if runtime.GOOS == "windows" {
		return fmt.Errorf("self-update is not supported on Windows. Please download the latest version manually from https://github.com/%s/releases", branding.GitHubRepo())
	}

	info, err := os.Stat(currentPath)
	if err != nil {
		return fmt.Errorf("stat current binary: %w", err)
	}
	origPerm := info.Mode().Perm()

	backupPath := currentPath + ".backup"
	if err := moveFile(currentPath, backupPath); err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}

	if err := moveFile(newPath, currentPath); err != nil {
		RollbackBinary(backupPath, currentPath)
		return fmt.Errorf("installing new binary: %w", err)
	}

	// The Windows guard above means plain chmod is always available here.
	os.Chmod(currentPath, origPerm)

	if err := VerifyBinary(currentPath, expectedVersion); err != nil {
		RollbackBinary(backupPath, currentPath)
		return fmt.Errorf("verification failed, rolled back: %w", err)
	}

	os.Remove(backupPath)
	return nil
}

// VerifyBinary runs the binary's own "version --json" command and checks
// that it answers with the expected version.
func VerifyBinary(binaryPath, expectedVersion string) error {
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, binaryPath, "version", "--json").Output()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("new binary did not respond within %s", verifyTimeout)
	}
	if err != nil {
		return fmt.Errorf("new binary exited with error: %w", err)
	}

	var report map[string]string
	if err := json.Unmarshal(out, &report); err != nil {
		return fmt.Errorf("parsing version output: %w", err)
	}
	got := strings.TrimPrefix(report["version"], "v")
	want := strings.TrimPrefix(expectedVersion, "v")
	if got != "" && got != want {
		return fmt.Errorf("new binary reports version %s, expected %s", got, want)
	}
	return nil
}

// RollbackBinary restores the backup to the current path and removes it.
func RollbackBinary(backupPath, currentPath string) error {
	if err := moveFile(backupPath, currentPath); err != nil {
		return fmt.Errorf("restoring backup: %w", err)
	}
	return nil
}

// moveFile renames src onto dst, falling back to copy-and-delete when
// the paths sit on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	// The copied file is authoritative now; a stale source is harmless.
	os.Remove(src)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
