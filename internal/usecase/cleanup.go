package usecase

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/farhanda/snapvault/internal/domain"
)

// Cleanup enforces retention and removes the debris of failed runs.
type Cleanup struct {
	manifests ManifestStore
	layout    Layout
	targets   []UploadTarget
	logger    Logger
	now       func() time.Time
}

func NewCleanup(manifests ManifestStore, layout Layout, targets []UploadTarget, logger Logger) *Cleanup {
	return &Cleanup{
		manifests: manifests,
		layout:    layout,
		targets:   targets,
		logger:    logger,
		now:       time.Now,
	}
}

// CleanupExpired removes every backup whose manifest file is older than the
// retention cutoff. The sweep is manifest-driven: artifact files that have no
// manifest belong to an in-flight or failed run and are never touched here,
// which gates deletion on run-terminality. Within a run, artifacts go first
// and the manifest last, so an interrupted sweep is retried in full on the
// next pass instead of stranding unreferenced files.
func (c *Cleanup) CleanupExpired(ctx context.Context, policy domain.RetentionPolicy) error {
	cutoff := policy.Cutoff(c.now())

	ids, err := c.manifests.IDsOlderThan(cutoff)
	if err != nil {
		return fmt.Errorf("scan expired manifests: %w", err)
	}

	removed := 0
	for _, id := range ids {
		if isLocked(c.layout.LockPath(id)) {
			c.logger.Warnf("Skipping expired backup %s: locked by another operation", id)
			continue
		}

		m, err := c.manifests.Read(id)
		if err != nil {
			c.logger.Errorf("Failed to read expired manifest %s: %v", id, err)
			continue
		}

		for _, name := range m.ComponentNames() {
			path := m.Component(name).File
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				c.logger.Errorf("Failed to delete artifact %s: %v", path, err)
			}
		}

		if err := c.manifests.Delete(id); err != nil {
			c.logger.Errorf("Failed to delete manifest %s: %v", id, err)
			continue
		}

		removed++
		c.logger.Infof("Removed expired backup %s", id)
	}

	if removed > 0 {
		c.logger.Infof("Retention pass removed %d backup(s) older than %d days",
			removed, policy.MaxAgeDays)
	}

	c.cleanupRemote(ctx, cutoff)
	return nil
}

// cleanupRemote applies the same cutoff to each remote target. Remote
// retention is best-effort; failures are logged and never propagate.
func (c *Cleanup) cleanupRemote(ctx context.Context, cutoff time.Time) {
	for _, target := range c.targets {
		keys, err := target.Store.ListOlderThan(ctx, cutoff)
		if err != nil {
			c.logger.Errorf("Failed to list old objects on %s: %v", target.Name, err)
			continue
		}

		deleted := 0
		for _, key := range keys {
			if err := target.Store.Delete(ctx, key); err != nil {
				c.logger.Errorf("Failed to delete %s from %s: %v", key, target.Name, err)
				continue
			}
			deleted++
		}

		if deleted > 0 {
			c.logger.Infof("Deleted %d expired object(s) from %s", deleted, target.Name)
		}
	}
}

// CleanupFailed removes every artifact and manifest fragment of one run,
// including raw intermediates a mid-flight failure may have left behind.
// Half-written backups must never be mistakable for valid ones.
func (c *Cleanup) CleanupFailed(id string) error {
	for _, path := range c.layout.RunArtifacts(id) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove partial artifact %s: %w", path, err)
		}
		c.logger.Infof("[%s] Removed partial artifact %s", id, path)
	}

	if err := c.manifests.Delete(id); err != nil {
		return fmt.Errorf("remove manifest for failed run: %w", err)
	}

	return nil
}
