package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/farhanda/snapvault/internal/domain"
)

// RestoreOptions selects which components to restore. An empty Components
// slice means every component present in the manifest. ConfirmFiles must be
// set before the files component is applied, since unpacking overwrites the
// live application tree.
type RestoreOptions struct {
	Components   []string
	ConfirmFiles bool
}

// ComponentOutcome reports one component's restore result. Detail carries
// the config snapshot content for operator review.
type ComponentOutcome struct {
	Component string `json:"component"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

type RestoreResult struct {
	BackupID   string             `json:"backup_id"`
	Success    bool               `json:"success"`
	Components []ComponentOutcome `json:"components"`
}

// Restore verifies and applies the requested components of one backup. Each
// component runs Verify then Apply; a failure in one never aborts the others.
// The run is serialized against concurrent cleanup via the per-ID lock.
func (o *Orchestrator) Restore(ctx context.Context, id string, opts RestoreOptions) (*RestoreResult, error) {
	m, err := o.manifests.Read(id)
	if err != nil {
		return nil, err
	}

	release, err := acquireLock(o.layout.LockPath(id))
	if err != nil {
		return nil, err
	}
	defer release()

	requested := opts.Components
	if len(requested) == 0 {
		requested = m.ComponentNames()
	}

	result := &RestoreResult{BackupID: id, Success: true}
	for _, name := range requested {
		name = strings.TrimSpace(name)
		outcome := o.restoreComponent(ctx, m, name, opts)
		if !outcome.Success {
			result.Success = false
		}
		result.Components = append(result.Components, outcome)
	}

	return result, nil
}

func (o *Orchestrator) restoreComponent(ctx context.Context, m *domain.Manifest, name string, opts RestoreOptions) ComponentOutcome {
	outcome := ComponentOutcome{Component: name}

	comp := m.Component(name)
	if comp == nil {
		outcome.Error = fmt.Sprintf("component %q is not part of backup %s", name, m.BackupID)
		return outcome
	}

	// Verify: restore never proceeds with unverified data.
	got, err := o.checksum(comp.File)
	if err != nil {
		outcome.Error = fmt.Sprintf("verify %s: %v", name, err)
		return outcome
	}
	if got != comp.Checksum {
		ierr := &domain.IntegrityError{Component: name, Want: comp.Checksum, Got: got}
		o.logger.Errorf("[%s] %v", m.BackupID, ierr)
		outcome.Error = ierr.Error()
		return outcome
	}

	switch name {
	case domain.ComponentDatabase:
		err = o.applyDatabase(ctx, comp)
	case domain.ComponentFiles:
		if !opts.ConfirmFiles {
			outcome.Error = "unpacking overwrites the application tree; re-run with confirmation to apply"
			return outcome
		}
		err = o.applyFiles(ctx, comp)
	case domain.ComponentConfig:
		// Advisory only: surfaced for operator review, never auto-applied.
		var content []byte
		content, err = os.ReadFile(comp.File)
		if err == nil {
			outcome.Detail = string(content)
		}
	default:
		err = fmt.Errorf("unknown component %q", name)
	}

	if err != nil {
		o.logger.Errorf("[%s] restore %s failed: %v", m.BackupID, name, err)
		outcome.Error = err.Error()
		return outcome
	}

	o.logger.Infof("[%s] restored %s component", m.BackupID, name)
	outcome.Success = true
	return outcome
}

func (o *Orchestrator) applyDatabase(ctx context.Context, comp *domain.ManifestComponent) error {
	rawPath, cleanup, err := o.decompressToTemp(comp.File, "snapvault_restore_db_*"+o.db.DumpExt())
	if err != nil {
		return err
	}
	defer cleanup()

	return o.db.Restore(ctx, rawPath)
}

func (o *Orchestrator) applyFiles(ctx context.Context, comp *domain.ManifestComponent) error {
	archivePath, cleanup, err := o.decompressToTemp(comp.File, "snapvault_restore_files_*.tar")
	if err != nil {
		return err
	}
	defer cleanup()

	return o.archiver.Unpack(ctx, archivePath, o.appRoot)
}

func (o *Orchestrator) decompressToTemp(artifactPath, pattern string) (string, func(), error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := o.compressor.Decompress(artifactPath, tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", nil, fmt.Errorf("decompress %s: %w", filepath.Base(artifactPath), err)
	}

	return tmpPath, func() { os.Remove(tmpPath) }, nil
}
