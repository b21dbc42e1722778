package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/farhanda/snapvault/internal/adapter/archive"
	"github.com/farhanda/snapvault/internal/adapter/compressor"
	"github.com/farhanda/snapvault/internal/adapter/database"
	"github.com/farhanda/snapvault/internal/adapter/manifest"
	"github.com/farhanda/snapvault/internal/adapter/runner"
	"github.com/farhanda/snapvault/internal/adapter/storage"
	"github.com/farhanda/snapvault/internal/config"
	"github.com/farhanda/snapvault/internal/domain"
	"github.com/farhanda/snapvault/internal/infrastructure/logger"
	"github.com/farhanda/snapvault/internal/infrastructure/scheduler"
	"github.com/farhanda/snapvault/internal/usecase"
)

// App assembles the orchestrator and its collaborators from an explicit
// Config. Nothing global: every dependency is constructed here and injected.
type App struct {
	Config       *config.Config
	Logger       *logger.Logger
	Registrar    *scheduler.CronRegistrar
	Orchestrator *usecase.Orchestrator
}

func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.App.LogLevel, cfg.App.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	execRunner := runner.NewExec()

	var db domain.Database
	switch cfg.Database.Engine {
	case "mysql":
		db = database.NewMySQL(&cfg.Database, execRunner)
	case "postgresql":
		db = database.NewPostgreSQL(&cfg.Database, execRunner)
	default:
		return nil, fmt.Errorf("unsupported database engine: %s", cfg.Database.Engine)
	}

	manifests, err := manifest.NewStore(cfg.Backup.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize manifest store: %w", err)
	}

	layout := usecase.Layout{Root: cfg.Backup.LocalPath}
	targets := initializeUploadTargets(cfg, log)
	uploader := usecase.NewUploader(targets, log)
	cleanup := usecase.NewCleanup(manifests, layout, targets, log)
	registrar := scheduler.New()

	snapshots := usecase.NewSnapshotBuilder(
		db,
		execRunner,
		registrar,
		cfg.App.Name,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database,
		cfg.App.SensitivePaths,
	)

	orchestrator := usecase.NewOrchestrator(usecase.OrchestratorDeps{
		Database:   db,
		Archiver:   archive.NewTar(execRunner, cfg.Database.DumpTimeout),
		Compressor: compressor.NewGzip(),
		Checksum:   compressor.SHA256File,
		Snapshots:  snapshots,
		Manifests:  manifests,
		Uploader:   uploader,
		Cleanup:    cleanup,
		Registrar:  registrar,
		Layout:     layout,
		Policy:     domain.RetentionPolicy{MaxAgeDays: cfg.Backup.RetentionDays},
		AppRoot:    cfg.App.Root,
		Excludes:   archiveExcludes(cfg),
		Logger:     log,
	})

	log.Infof("Initialized %s (engine: %s, backup root: %s, retention: %d days)",
		cfg.App.Name, cfg.Database.Engine, cfg.Backup.LocalPath, cfg.Backup.RetentionDays)

	return &App{
		Config:       cfg,
		Logger:       log,
		Registrar:    registrar,
		Orchestrator: orchestrator,
	}, nil
}

// archiveExcludes extends the caller-supplied patterns with the backup
// output directory when it lives inside the application root, so archives
// never recurse into previous backups.
func archiveExcludes(cfg *config.Config) []string {
	excludes := append([]string{}, cfg.Backup.Exclude...)

	rel, err := filepath.Rel(cfg.App.Root, cfg.Backup.LocalPath)
	if err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		excludes = append(excludes, "./"+filepath.ToSlash(rel))
	}

	return excludes
}

func initializeUploadTargets(cfg *config.Config, log *logger.Logger) []usecase.UploadTarget {
	var targets []usecase.UploadTarget

	for _, targetCfg := range cfg.GetEnabledUploadTargets() {
		var store domain.BlobStore
		var err error

		switch targetCfg.Type {
		case "s3":
			store, err = storage.NewS3(&targetCfg)
		case "gdrive":
			store, err = storage.NewGDrive(&targetCfg)
		case "telegram":
			store, err = storage.NewTelegram(&targetCfg)
		case "local":
			store, err = storage.NewLocal(targetCfg.Path)
		default:
			log.Warnf("Unknown upload target type: %s", targetCfg.Type)
			continue
		}

		if err != nil {
			log.Errorf("Failed to initialize %s upload target: %v", targetCfg.Type, err)
			continue
		}

		log.Infof("Remote upload enabled: %s", targetCfg.Type)
		targets = append(targets, usecase.UploadTarget{
			Name:  targetCfg.Type,
			Store: store,
		})
	}

	return targets
}

// RunScheduler starts the cron loop and blocks until ctx is cancelled.
func (a *App) RunScheduler(ctx context.Context) error {
	a.Registrar.Start()
	a.Logger.Infof("Scheduler started")

	<-ctx.Done()

	a.Registrar.Stop()
	a.Logger.Infof("Scheduler stopped")
	return nil
}

func (a *App) Shutdown() {
	a.Logger.Close()
}
