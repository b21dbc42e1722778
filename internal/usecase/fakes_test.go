package usecase

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/farhanda/snapvault/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}

// fakeDatabase writes a canned dump and records what gets replayed into it.
type fakeDatabase struct {
	dumpContent  string
	dumpErr      error
	pingErr      error
	restoreErr   error
	restored     []string
	schemaDigest string
}

func (f *fakeDatabase) Dump(ctx context.Context, outputPath string) error {
	if f.dumpErr != nil {
		return f.dumpErr
	}
	return os.WriteFile(outputPath, []byte(f.dumpContent), 0o600)
}

func (f *fakeDatabase) Restore(ctx context.Context, dumpPath string) error {
	if f.restoreErr != nil {
		return f.restoreErr
	}
	content, err := os.ReadFile(dumpPath)
	if err != nil {
		return err
	}
	f.restored = append(f.restored, string(content))
	return nil
}

func (f *fakeDatabase) SchemaDigest(ctx context.Context) (string, error) {
	if f.schemaDigest == "" {
		return "0000", nil
	}
	return f.schemaDigest, nil
}

func (f *fakeDatabase) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeDatabase) Engine() string                 { return "mysql" }
func (f *fakeDatabase) DumpExt() string                { return ".sql" }

// fakeArchiver writes a canned archive and records unpack destinations.
type fakeArchiver struct {
	content    string
	archiveErr error
	unpackErr  error
	unpacked   []string
	excludes   []string
}

func (f *fakeArchiver) Archive(ctx context.Context, root, destPath string, excludes []string) error {
	if f.archiveErr != nil {
		return f.archiveErr
	}
	f.excludes = excludes
	return os.WriteFile(destPath, []byte(f.content), 0o600)
}

func (f *fakeArchiver) Unpack(ctx context.Context, archivePath, root string) error {
	if f.unpackErr != nil {
		return f.unpackErr
	}
	content, err := os.ReadFile(archivePath)
	if err != nil {
		return err
	}
	f.unpacked = append(f.unpacked, string(content)+"@"+root)
	return nil
}

// fakeRunner serves snapshot tool-version lookups.
type fakeRunner struct{}

func (fakeRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (int, []byte, error) {
	return 0, []byte(name + " (fake) 1.0\n"), nil
}

type fakeRegistrar struct {
	entries []domain.ScheduleEntry
}

func (f *fakeRegistrar) Install(name, spec string, job func(context.Context) error) error {
	for i, e := range f.entries {
		if e.Name == name {
			f.entries[i].Spec = spec
			return nil
		}
	}
	f.entries = append(f.entries, domain.ScheduleEntry{Name: name, Spec: spec})
	return nil
}

func (f *fakeRegistrar) Remove(name string) {}

func (f *fakeRegistrar) Entries() []domain.ScheduleEntry { return f.entries }

// fakeBlobStore records uploads and can be primed to fail.
type fakeBlobStore struct {
	mu        sync.Mutex
	uploadErr error
	uploads   []string
	deleted   []string
	old       []string
}

func (f *fakeBlobStore) Upload(ctx context.Context, localPath, key string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, key)
	return nil
}

func (f *fakeBlobStore) List(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.uploads...), nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBlobStore) ListOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	return append([]string{}, f.old...), nil
}

// failingManifestStore wraps a real store but refuses writes, to exercise
// the persistence-failure path.
type failingManifestStore struct {
	ManifestStore
}

func (f *failingManifestStore) Write(m *domain.Manifest) error {
	return &domain.PersistError{Path: f.Path(m.BackupID), Err: fmt.Errorf("disk full")}
}
