package usecase

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/farhanda/snapvault/internal/domain"
)

// Layout maps the backup root onto its on-disk structure: one subdirectory
// per component for artifacts, manifests and lock files at the root itself.
type Layout struct {
	Root string
}

func (l Layout) ComponentDir(name string) string {
	return filepath.Join(l.Root, name)
}

func (l Layout) DatabaseDir() string { return l.ComponentDir(domain.ComponentDatabase) }
func (l Layout) FilesDir() string    { return l.ComponentDir(domain.ComponentFiles) }
func (l Layout) ConfigDir() string   { return l.ComponentDir(domain.ComponentConfig) }

func (l Layout) LockPath(id string) string {
	return filepath.Join(l.Root, id+".lock")
}

func (l Layout) EnsureDirs() error {
	for _, name := range domain.AllComponents {
		if err := os.MkdirAll(l.ComponentDir(name), 0o755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", name, err)
		}
	}
	return nil
}

// RunArtifacts returns every file belonging to a run, including raw
// intermediates a failed run may have left behind.
func (l Layout) RunArtifacts(id string) []string {
	var paths []string
	for _, name := range domain.AllComponents {
		matches, err := filepath.Glob(filepath.Join(l.ComponentDir(name), id+"_*"))
		if err != nil {
			continue
		}
		paths = append(paths, matches...)
	}
	return paths
}
