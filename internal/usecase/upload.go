package usecase

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/farhanda/snapvault/internal/domain"
)

// Uploader replicates a run's artifacts to the configured remote targets.
// Every (artifact, target) pair is independent: a failure is logged and
// never blocks the others, and the run's local success is never revoked.
type Uploader struct {
	targets []UploadTarget
	logger  Logger
}

func NewUploader(targets []UploadTarget, logger Logger) *Uploader {
	return &Uploader{targets: targets, logger: logger}
}

// RemoteKey partitions uploads by date: year/month/day/filename.
func RemoteKey(t time.Time, filename string) string {
	return t.Format("2006/01/02") + "/" + filename
}

func (u *Uploader) UploadRun(ctx context.Context, run *domain.BackupRun) {
	if len(u.targets) == 0 || len(run.Components) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, artifact := range run.Components {
		for _, target := range u.targets {
			wg.Add(1)
			go func(a *domain.ArtifactRecord, t UploadTarget) {
				defer wg.Done()

				filename := filepath.Base(a.Path)
				key := RemoteKey(a.CreatedAt, filename)
				if err := t.Store.Upload(ctx, a.Path, key); err != nil {
					u.logger.Errorf("[%s] %v", run.ID,
						&domain.UploadError{Target: t.Name, Artifact: filename, Err: err})
					return
				}
				u.logger.Infof("[%s] Uploaded %s to %s", run.ID, key, t.Name)
			}(artifact, target)
		}
	}
	wg.Wait()
}
