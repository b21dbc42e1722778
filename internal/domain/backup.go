package domain

import (
	"time"
)

// Component names, used as manifest keys and artifact subdirectory names.
const (
	ComponentDatabase = "database"
	ComponentFiles    = "files"
	ComponentConfig   = "config"
)

// AllComponents lists every backup component in execution order.
var AllComponents = []string{ComponentDatabase, ComponentFiles, ComponentConfig}

type RunStatus string

const (
	StatusInProgress RunStatus = "in_progress"
	StatusSucceeded  RunStatus = "succeeded"
	StatusFailed     RunStatus = "failed"
)

// ArtifactRecord describes one produced backup file. The checksum is computed
// over the final (compressed) bytes and is the sole basis for restore-time trust.
type ArtifactRecord struct {
	Path              string
	SizeBytes         int64
	OriginalSizeBytes int64
	Checksum          string
	CreatedAt         time.Time
}

// CompressionRatio reports compressed/original size, 1.0 for uncompressed artifacts.
func (a *ArtifactRecord) CompressionRatio() float64 {
	if a.OriginalSizeBytes <= 0 {
		return 1.0
	}
	return float64(a.SizeBytes) / float64(a.OriginalSizeBytes)
}

// BackupRun is one full-backup invocation. It is owned exclusively by the
// orchestrator for the duration of the run and is never mutated after its
// terminal state has been persisted as a manifest.
type BackupRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Components map[string]*ArtifactRecord
	Status     RunStatus
	Err        string
}

func NewBackupRun(id string, startedAt time.Time) *BackupRun {
	return &BackupRun{
		ID:         id,
		StartedAt:  startedAt,
		Components: make(map[string]*ArtifactRecord),
		Status:     StatusInProgress,
	}
}

func (r *BackupRun) TotalSizeBytes() int64 {
	var total int64
	for _, a := range r.Components {
		total += a.SizeBytes
	}
	return total
}

// RetentionPolicy is applied uniformly across a run's artifacts and manifest;
// a backup is retained entirely or not at all.
type RetentionPolicy struct {
	MaxAgeDays int
}

func (p RetentionPolicy) Cutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -p.MaxAgeDays)
}
