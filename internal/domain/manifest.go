package domain

import "time"

// ManifestTimeFormat is the timestamp layout used inside manifest documents.
const ManifestTimeFormat = "2006-01-02 15:04:05"

// ManifestComponent is the serialized form of one ArtifactRecord.
type ManifestComponent struct {
	File             string  `json:"file"`
	Size             int64   `json:"size"`
	OriginalSize     int64   `json:"original_size"`
	CompressionRatio float64 `json:"compression_ratio"`
	Checksum         string  `json:"checksum"`
	Timestamp        string  `json:"timestamp"`
}

// Manifest is the durable record of a terminal BackupRun, one JSON document
// per run named <id>.json at the backup root. Manifest files are the single
// source of truth for which backups exist.
type Manifest struct {
	BackupID  string             `json:"backup_id"`
	Timestamp string             `json:"timestamp"`
	Database  *ManifestComponent `json:"database,omitempty"`
	Files     *ManifestComponent `json:"files,omitempty"`
	Config    *ManifestComponent `json:"config,omitempty"`
	TotalSize int64              `json:"total_size"`
	Duration  float64            `json:"duration"`
	Success   bool               `json:"success"`
}

// Component returns the named component record, or nil if absent.
func (m *Manifest) Component(name string) *ManifestComponent {
	switch name {
	case ComponentDatabase:
		return m.Database
	case ComponentFiles:
		return m.Files
	case ComponentConfig:
		return m.Config
	}
	return nil
}

func (m *Manifest) setComponent(name string, c *ManifestComponent) {
	switch name {
	case ComponentDatabase:
		m.Database = c
	case ComponentFiles:
		m.Files = c
	case ComponentConfig:
		m.Config = c
	}
}

// ComponentNames lists the components present, in canonical order.
func (m *Manifest) ComponentNames() []string {
	var names []string
	for _, name := range AllComponents {
		if m.Component(name) != nil {
			names = append(names, name)
		}
	}
	return names
}

// NewManifest serializes a terminal BackupRun.
func NewManifest(run *BackupRun) *Manifest {
	m := &Manifest{
		BackupID:  run.ID,
		Timestamp: run.StartedAt.Format(ManifestTimeFormat),
		TotalSize: run.TotalSizeBytes(),
		Duration:  run.FinishedAt.Sub(run.StartedAt).Seconds(),
		Success:   run.Status == StatusSucceeded,
	}
	for name, a := range run.Components {
		m.setComponent(name, &ManifestComponent{
			File:             a.Path,
			Size:             a.SizeBytes,
			OriginalSize:     a.OriginalSizeBytes,
			CompressionRatio: a.CompressionRatio(),
			Checksum:         a.Checksum,
			Timestamp:        a.CreatedAt.Format(ManifestTimeFormat),
		})
	}
	return m
}

// Summary is the list-view projection of one manifest.
type Summary struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	TotalSize  int64     `json:"total_size"`
	Success    bool      `json:"success"`
	Components []string  `json:"components"`
}
