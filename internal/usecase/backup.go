package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/farhanda/snapvault/internal/domain"
)

// BackupResult is the public outcome of one full-backup invocation, printed
// as JSON by the CLI.
type BackupResult struct {
	BackupID        string   `json:"backup_id"`
	Success         bool     `json:"success"`
	Error           string   `json:"error,omitempty"`
	FailedComponent string   `json:"failed_component,omitempty"`
	Components      []string `json:"components,omitempty"`
	TotalSize       int64    `json:"total_size"`
	Duration        float64  `json:"duration"`
}

// Orchestrator owns the lifecycle of a BackupRun: it sequences the component
// executors, persists the manifest only once every artifact is complete and
// checksummed, and guarantees a failed run leaves neither a manifest nor
// artifacts behind.
type Orchestrator struct {
	db         domain.Database
	archiver   Archiver
	compressor domain.Compressor
	checksum   ChecksumFunc
	snapshots  *SnapshotBuilder
	manifests  ManifestStore
	uploader   *Uploader
	cleanup    *Cleanup
	registrar  domain.ScheduleRegistrar
	layout     Layout
	policy     domain.RetentionPolicy
	appRoot    string
	excludes   []string
	logger     Logger
	now        func() time.Time
}

// OrchestratorDeps carries the orchestrator's collaborators; everything is
// injected so tests can run with fakes and synthetic configs.
type OrchestratorDeps struct {
	Database   domain.Database
	Archiver   Archiver
	Compressor domain.Compressor
	Checksum   ChecksumFunc
	Snapshots  *SnapshotBuilder
	Manifests  ManifestStore
	Uploader   *Uploader
	Cleanup    *Cleanup
	Registrar  domain.ScheduleRegistrar
	Layout     Layout
	Policy     domain.RetentionPolicy
	AppRoot    string
	Excludes   []string
	Logger     Logger
}

func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	return &Orchestrator{
		db:         deps.Database,
		archiver:   deps.Archiver,
		compressor: deps.Compressor,
		checksum:   deps.Checksum,
		snapshots:  deps.Snapshots,
		manifests:  deps.Manifests,
		uploader:   deps.Uploader,
		cleanup:    deps.Cleanup,
		registrar:  deps.Registrar,
		layout:     deps.Layout,
		policy:     deps.Policy,
		appRoot:    deps.AppRoot,
		excludes:   deps.Excludes,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// RunFullBackup executes one full backup: database, files and config in
// sequence, each attempted exactly once. Artifacts are fully written and
// checksummed before the manifest referencing them is persisted.
func (o *Orchestrator) RunFullBackup(ctx context.Context) *BackupResult {
	start := o.now()
	run := domain.NewBackupRun(NewBackupID(start), start)

	o.logger.Infof("[%s] Starting full backup", run.ID)

	if err := o.layout.EnsureDirs(); err != nil {
		return o.fail(run, "", err)
	}

	steps := []struct {
		name string
		fn   func(context.Context, *domain.BackupRun) (*domain.ArtifactRecord, error)
	}{
		{domain.ComponentDatabase, o.backupDatabase},
		{domain.ComponentFiles, o.backupFiles},
		{domain.ComponentConfig, o.backupConfig},
	}

	for _, step := range steps {
		artifact, err := step.fn(ctx, run)
		if err != nil {
			return o.fail(run, step.name, err)
		}
		run.Components[step.name] = artifact
		o.logger.Infof("[%s] %s component complete: %s (%.2f MB)",
			run.ID, step.name, filepath.Base(artifact.Path),
			float64(artifact.SizeBytes)/(1024*1024))
	}

	run.FinishedAt = o.now()
	run.Status = domain.StatusSucceeded

	if err := o.manifests.Write(domain.NewManifest(run)); err != nil {
		// An unrecorded backup is unrecoverable in practice: treat a
		// manifest write failure as a failure of the whole run.
		return o.fail(run, "", err)
	}

	o.logger.Infof("[%s] Backup completed in %s, total %.2f MB",
		run.ID, run.FinishedAt.Sub(run.StartedAt).Round(time.Second),
		float64(run.TotalSizeBytes())/(1024*1024))

	o.uploader.UploadRun(ctx, run)

	if err := o.cleanup.CleanupExpired(ctx, o.policy); err != nil {
		o.logger.Errorf("[%s] Retention pass failed: %v", run.ID, err)
	}

	return &BackupResult{
		BackupID:   run.ID,
		Success:    true,
		Components: domain.NewManifest(run).ComponentNames(),
		TotalSize:  run.TotalSizeBytes(),
		Duration:   run.FinishedAt.Sub(run.StartedAt).Seconds(),
	}
}

func (o *Orchestrator) fail(run *domain.BackupRun, component string, err error) *BackupResult {
	run.Status = domain.StatusFailed
	run.Err = err.Error()
	run.FinishedAt = o.now()

	if component != "" {
		o.logger.Errorf("[%s] %s step failed: %v", run.ID, component, err)
	} else {
		o.logger.Errorf("[%s] Backup failed: %v", run.ID, err)
	}

	if cerr := o.cleanup.CleanupFailed(run.ID); cerr != nil {
		o.logger.Errorf("[%s] Cleanup of failed run left debris: %v", run.ID, cerr)
	}

	return &BackupResult{
		BackupID:        run.ID,
		Success:         false,
		Error:           err.Error(),
		FailedComponent: component,
		Duration:        run.FinishedAt.Sub(run.StartedAt).Seconds(),
	}
}

func (o *Orchestrator) backupDatabase(ctx context.Context, run *domain.BackupRun) (*domain.ArtifactRecord, error) {
	if err := o.db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}

	rawPath := filepath.Join(o.layout.DatabaseDir(),
		run.ID+"_"+domain.ComponentDatabase+o.db.DumpExt())
	if err := o.db.Dump(ctx, rawPath); err != nil {
		return nil, err
	}

	return o.sealArtifact(rawPath)
}

func (o *Orchestrator) backupFiles(ctx context.Context, run *domain.BackupRun) (*domain.ArtifactRecord, error) {
	rawPath := filepath.Join(o.layout.FilesDir(),
		run.ID+"_"+domain.ComponentFiles+".tar")
	if err := o.archiver.Archive(ctx, o.appRoot, rawPath, o.excludes); err != nil {
		return nil, err
	}

	return o.sealArtifact(rawPath)
}

// backupConfig stores the snapshot uncompressed: it is small and meant to be
// read by an operator during restore triage.
func (o *Orchestrator) backupConfig(ctx context.Context, run *domain.BackupRun) (*domain.ArtifactRecord, error) {
	doc, err := o.snapshots.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("build config snapshot: %w", err)
	}

	path := filepath.Join(o.layout.ConfigDir(),
		run.ID+"_"+domain.ComponentConfig+".json")
	if err := os.WriteFile(path, doc, 0o600); err != nil {
		return nil, fmt.Errorf("write config snapshot: %w", err)
	}

	sum, err := o.checksum(path)
	if err != nil {
		return nil, err
	}

	return &domain.ArtifactRecord{
		Path:              path,
		SizeBytes:         int64(len(doc)),
		OriginalSizeBytes: int64(len(doc)),
		Checksum:          sum,
		CreatedAt:         o.now(),
	}, nil
}

// sealArtifact turns a raw intermediate into a final artifact: verify it is
// non-empty, compress, discard the raw file, checksum the compressed bytes.
func (o *Orchestrator) sealArtifact(rawPath string) (*domain.ArtifactRecord, error) {
	info, err := os.Stat(rawPath)
	if err != nil {
		return nil, fmt.Errorf("raw artifact missing: %w", err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("raw artifact %s is empty", filepath.Base(rawPath))
	}

	destPath := rawPath + o.compressor.Ext()
	if err := o.compressor.Compress(rawPath, destPath); err != nil {
		return nil, fmt.Errorf("compress artifact: %w", err)
	}
	if err := os.Remove(rawPath); err != nil {
		return nil, fmt.Errorf("remove raw artifact: %w", err)
	}

	compressedInfo, err := os.Stat(destPath)
	if err != nil {
		return nil, fmt.Errorf("stat compressed artifact: %w", err)
	}

	sum, err := o.checksum(destPath)
	if err != nil {
		return nil, err
	}

	return &domain.ArtifactRecord{
		Path:              destPath,
		SizeBytes:         compressedInfo.Size(),
		OriginalSizeBytes: info.Size(),
		Checksum:          sum,
		CreatedAt:         o.now(),
	}, nil
}

// List returns manifest summaries, newest first.
func (o *Orchestrator) List(limit int) ([]domain.Summary, error) {
	return o.manifests.List(limit)
}

// ScheduleBackups registers (or replaces) the periodic full-backup trigger.
func (o *Orchestrator) ScheduleBackups(spec string) error {
	return o.registrar.Install("full-backup", spec, func(ctx context.Context) error {
		result := o.RunFullBackup(ctx)
		if !result.Success {
			return fmt.Errorf("scheduled backup %s failed: %s", result.BackupID, result.Error)
		}
		return nil
	})
}
