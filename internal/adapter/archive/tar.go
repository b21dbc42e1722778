package archive

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/farhanda/snapvault/internal/domain"
)

// DefaultExcludes are always applied to file archives. Callers may add
// patterns on top but can never remove these, so version-control metadata,
// dependency caches and secret files stay out of every archive.
var DefaultExcludes = []string{
	".git",
	".svn",
	"node_modules",
	"vendor",
	"__pycache__",
	".cache",
	".env",
	".env.*",
	"*.pem",
	"*.key",
	"*.tar",
	"*.tar.gz",
}

// TarArchiver drives the external tar tool. Archives are created rooted at
// the application directory so entries carry relative paths, which keeps a
// later unpack relocation-safe.
type TarArchiver struct {
	runner  domain.CommandRunner
	timeout time.Duration
}

func NewTar(runner domain.CommandRunner, timeout time.Duration) *TarArchiver {
	return &TarArchiver{runner: runner, timeout: timeout}
}

func (t *TarArchiver) Archive(ctx context.Context, root, destPath string, excludes []string) error {
	args := []string{"-cf", destPath}
	for _, pattern := range DefaultExcludes {
		args = append(args, "--exclude="+pattern)
	}
	for _, pattern := range excludes {
		args = append(args, "--exclude="+pattern)
	}
	args = append(args, "-C", root, ".")

	exitCode, output, err := t.runner.Run(ctx, t.timeout, "tar", args...)
	if err != nil {
		return fmt.Errorf("tar: %w", err)
	}
	if exitCode != 0 {
		return &domain.ArchiveError{ExitCode: exitCode, Output: string(output)}
	}

	if _, err := os.Stat(destPath); err != nil {
		return &domain.ArchiveError{ExitCode: exitCode, Output: fmt.Sprintf("archive file was not created: %v", err)}
	}
	return nil
}

// Unpack extracts an archive into root. Entries are relative, so existing
// files under root may be overwritten.
func (t *TarArchiver) Unpack(ctx context.Context, archivePath, root string) error {
	args := []string{"-xf", archivePath, "-C", root}

	exitCode, output, err := t.runner.Run(ctx, t.timeout, "tar", args...)
	if err != nil {
		return fmt.Errorf("tar extract: %w", err)
	}
	if exitCode != 0 {
		return &domain.ArchiveError{ExitCode: exitCode, Output: string(output)}
	}
	return nil
}
