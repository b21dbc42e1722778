package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/farhanda/snapvault/internal/domain"
)

func expireRun(env *testEnv, id string, age time.Duration) {
	old := time.Now().Add(-age)
	m, _ := env.manifests.Read(id)
	for _, name := range m.ComponentNames() {
		os.Chtimes(m.Component(name).File, old, old)
	}
	os.Chtimes(env.manifests.Path(id), old, old)
}

func TestCleanupExpired(t *testing.T) {
	Convey("Given one expired and one fresh backup", t, func() {
		baseDir, err := os.MkdirTemp("", "snapvault_cleanup_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(baseDir)

		env := newTestEnv(baseDir, nil, nil)
		ctx := context.Background()

		oldRun := env.orch.RunFullBackup(ctx)
		So(oldRun.Success, ShouldBeTrue)
		freshRun := env.orch.RunFullBackup(ctx)
		So(freshRun.Success, ShouldBeTrue)

		expireRun(env, oldRun.BackupID, 40*24*time.Hour)

		layout := Layout{Root: env.backupRoot}
		cleanup := NewCleanup(env.manifests, layout, nil, nopLogger{})
		policy := domain.RetentionPolicy{MaxAgeDays: 30}

		Convey("When the retention pass runs", func() {
			So(cleanup.CleanupExpired(ctx, policy), ShouldBeNil)

			Convey("The expired run is removed entirely, manifest and artifacts", func() {
				So(env.manifests.Exists(oldRun.BackupID), ShouldBeFalse)
				So(layout.RunArtifacts(oldRun.BackupID), ShouldBeEmpty)
			})

			Convey("The fresh run is untouched and orphan-free", func() {
				So(env.manifests.Exists(freshRun.BackupID), ShouldBeTrue)

				m, err := env.manifests.Read(freshRun.BackupID)
				So(err, ShouldBeNil)
				for _, name := range m.ComponentNames() {
					_, err := os.Stat(m.Component(name).File)
					So(err, ShouldBeNil)
				}
			})

			Convey("Every surviving artifact still has a referencing manifest", func() {
				summaries, err := env.manifests.List(0)
				So(err, ShouldBeNil)
				So(summaries, ShouldHaveLength, 1)
				So(layout.RunArtifacts(freshRun.BackupID), ShouldHaveLength, 3)
			})
		})

		Convey("When the expired run is locked by another operation", func() {
			So(os.WriteFile(layout.LockPath(oldRun.BackupID), []byte("1\n"), 0o644), ShouldBeNil)

			So(cleanup.CleanupExpired(ctx, policy), ShouldBeNil)

			Convey("The locked run is skipped entirely", func() {
				So(env.manifests.Exists(oldRun.BackupID), ShouldBeTrue)
				So(layout.RunArtifacts(oldRun.BackupID), ShouldHaveLength, 3)
			})
		})

		Convey("When a remote target holds expired objects", func() {
			remote := &fakeBlobStore{old: []string{"2024/01/01/stale.sql.gz"}}
			remoteCleanup := NewCleanup(env.manifests, layout, []UploadTarget{
				{Name: "s3", Store: remote},
			}, nopLogger{})

			So(remoteCleanup.CleanupExpired(ctx, policy), ShouldBeNil)

			Convey("They are deleted best-effort", func() {
				So(remote.deleted, ShouldResemble, []string{"2024/01/01/stale.sql.gz"})
			})
		})
	})
}

func TestCleanupFailed(t *testing.T) {
	Convey("Given a run that left partial artifacts behind", t, func() {
		baseDir, err := os.MkdirTemp("", "snapvault_cleanup_failed_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(baseDir)

		env := newTestEnv(baseDir, nil, nil)
		ctx := context.Background()

		survivor := env.orch.RunFullBackup(ctx)
		So(survivor.Success, ShouldBeTrue)

		layout := Layout{Root: env.backupRoot}
		failedID := NewBackupID(time.Now())
		rawDump := filepath.Join(layout.DatabaseDir(), failedID+"_database.sql")
		sealed := filepath.Join(layout.FilesDir(), failedID+"_files.tar.gz")
		So(os.WriteFile(rawDump, []byte("partial"), 0o600), ShouldBeNil)
		So(os.WriteFile(sealed, []byte("partial"), 0o600), ShouldBeNil)

		cleanup := NewCleanup(env.manifests, layout, nil, nopLogger{})

		Convey("CleanupFailed removes only that run's files", func() {
			So(cleanup.CleanupFailed(failedID), ShouldBeNil)

			So(layout.RunArtifacts(failedID), ShouldBeEmpty)
			So(layout.RunArtifacts(survivor.BackupID), ShouldHaveLength, 3)
			So(env.manifests.Exists(survivor.BackupID), ShouldBeTrue)
		})

		Convey("CleanupFailed on an unknown ID is a no-op", func() {
			So(cleanup.CleanupFailed(NewBackupID(time.Now())), ShouldBeNil)
		})
	})
}
