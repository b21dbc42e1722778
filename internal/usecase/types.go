package usecase

import (
	"context"
	"time"

	"github.com/farhanda/snapvault/internal/domain"
)

type Logger interface {
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

// Archiver produces and unpacks the files-component artifact.
type Archiver interface {
	Archive(ctx context.Context, root, destPath string, excludes []string) error
	Unpack(ctx context.Context, archivePath, root string) error
}

// ManifestStore persists and looks up terminal run manifests. The default
// implementation scans JSON files; an index-backed store can be substituted
// behind this interface without touching the orchestrator.
type ManifestStore interface {
	Path(id string) string
	Write(m *domain.Manifest) error
	Read(id string) (*domain.Manifest, error)
	Exists(id string) bool
	Delete(id string) error
	List(limit int) ([]domain.Summary, error)
	IDsOlderThan(cutoff time.Time) ([]string, error)
}

// ChecksumFunc computes the hex content hash of a file.
type ChecksumFunc func(path string) (string, error)

// UploadTarget pairs a remote blob store with a display name.
type UploadTarget struct {
	Name  string
	Store domain.BlobStore
}
