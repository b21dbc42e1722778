package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/farhanda/snapvault/internal/domain"
)

const manifestExt = ".json"

// Store persists one JSON manifest per terminal backup run at the backup
// root, named <id>.json. The files themselves are the index: listing scans
// them and orders by modification time, matching the on-disk source of truth.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create manifest directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+manifestExt)
}

// Write persists a manifest. Any failure here means the backup is not
// recorded and must not be reported as successful.
func (s *Store) Write(m *domain.Manifest) error {
	path := s.Path(m.BackupID)

	f, err := os.Create(path)
	if err != nil {
		return &domain.PersistError{Path: path, Err: err}
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(m); err != nil {
		return &domain.PersistError{Path: path, Err: err}
	}
	if err := f.Sync(); err != nil {
		return &domain.PersistError{Path: path, Err: err}
	}

	return nil
}

func (s *Store) Read(id string) (*domain.Manifest, error) {
	f, err := os.Open(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("backup %s: %w", id, domain.ErrManifestNotFound)
		}
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	var m domain.Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", id, err)
	}

	return &m, nil
}

func (s *Store) Exists(id string) bool {
	_, err := os.Stat(s.Path(id))
	return err == nil
}

func (s *Store) Delete(id string) error {
	if err := os.Remove(s.Path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete manifest: %w", err)
	}
	return nil
}

// List returns up to limit summaries, newest manifest file first. A limit of
// zero or less means no limit.
func (s *Store) List(limit int) ([]domain.Summary, error) {
	files, err := s.manifestFiles()
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})

	var summaries []domain.Summary
	for _, mf := range files {
		if limit > 0 && len(summaries) >= limit {
			break
		}
		m, err := s.Read(mf.id)
		if err != nil {
			// Corrupted manifests are reported by Read on direct lookup;
			// a listing keeps going past them.
			continue
		}
		ts, _ := time.Parse(domain.ManifestTimeFormat, m.Timestamp)
		summaries = append(summaries, domain.Summary{
			ID:         m.BackupID,
			Timestamp:  ts,
			TotalSize:  m.TotalSize,
			Success:    m.Success,
			Components: m.ComponentNames(),
		})
	}

	return summaries, nil
}

// IDsOlderThan returns the IDs of manifests whose file modification time is
// before cutoff. Retention sweeps are driven off this, never off artifact
// file ages, so only terminal runs are ever considered.
func (s *Store) IDsOlderThan(cutoff time.Time) ([]string, error) {
	files, err := s.manifestFiles()
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, mf := range files {
		if mf.modTime.Before(cutoff) {
			ids = append(ids, mf.id)
		}
	}
	return ids, nil
}

type manifestFile struct {
	id      string
	modTime time.Time
}

func (s *Store) manifestFiles() ([]manifestFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest directory: %w", err)
	}

	var files []manifestFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), manifestExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat manifest %s: %w", entry.Name(), err)
		}
		files = append(files, manifestFile{
			id:      strings.TrimSuffix(entry.Name(), manifestExt),
			modTime: info.ModTime(),
		})
	}

	return files, nil
}
