package manifest

import (
	"errors"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/farhanda/snapvault/internal/domain"
)

func terminalRun(id string, start time.Time) *domain.BackupRun {
	run := domain.NewBackupRun(id, start)
	run.Components[domain.ComponentDatabase] = &domain.ArtifactRecord{
		Path:              "/backups/database/" + id + "_database.sql.gz",
		SizeBytes:         512,
		OriginalSizeBytes: 2048,
		Checksum:          "deadbeef",
		CreatedAt:         start,
	}
	run.FinishedAt = start.Add(3 * time.Second)
	run.Status = domain.StatusSucceeded
	return run
}

func TestStore(t *testing.T) {
	Convey("Given a manifest store", t, func() {
		tempDir, err := os.MkdirTemp("", "manifest_store_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		store, err := NewStore(tempDir)
		So(err, ShouldBeNil)

		Convey("Write then Read round-trips the manifest", func() {
			start, _ := time.Parse(domain.ManifestTimeFormat, "2024-01-01 02:00:00")
			m := domain.NewManifest(terminalRun("backup_2024-01-01_02-00-00_a1b2c3", start))

			So(store.Write(m), ShouldBeNil)

			got, err := store.Read("backup_2024-01-01_02-00-00_a1b2c3")
			So(err, ShouldBeNil)
			So(got.BackupID, ShouldEqual, m.BackupID)
			So(got.Timestamp, ShouldEqual, "2024-01-01 02:00:00")
			So(got.Database.Checksum, ShouldEqual, "deadbeef")
			So(got.Database.CompressionRatio, ShouldEqual, 0.25)
			So(got.TotalSize, ShouldEqual, 512)
			So(got.Duration, ShouldEqual, 3.0)
			So(got.Success, ShouldBeTrue)
			So(got.Files, ShouldBeNil)
		})

		Convey("Read of an unknown ID reports not-found", func() {
			_, err := store.Read("backup_2099-01-01_00-00-00_ffffff")
			So(errors.Is(err, domain.ErrManifestNotFound), ShouldBeTrue)
		})

		Convey("List orders by manifest file time, newest first", func() {
			base := time.Now().Add(-time.Hour)
			ids := []string{
				"backup_2024-01-01_01-00-00_aaaaaa",
				"backup_2024-01-01_02-00-00_bbbbbb",
				"backup_2024-01-01_03-00-00_cccccc",
			}
			for i, id := range ids {
				run := terminalRun(id, base)
				So(store.Write(domain.NewManifest(run)), ShouldBeNil)
				mtime := base.Add(time.Duration(i) * time.Minute)
				So(os.Chtimes(store.Path(id), mtime, mtime), ShouldBeNil)
			}

			Convey("Without a limit, all summaries come back newest first", func() {
				summaries, err := store.List(0)
				So(err, ShouldBeNil)
				So(summaries, ShouldHaveLength, 3)
				So(summaries[0].ID, ShouldEqual, ids[2])
				So(summaries[2].ID, ShouldEqual, ids[0])
				So(summaries[0].Components, ShouldResemble, []string{domain.ComponentDatabase})
			})

			Convey("A limit truncates to the most recent entries", func() {
				summaries, err := store.List(1)
				So(err, ShouldBeNil)
				So(summaries, ShouldHaveLength, 1)
				So(summaries[0].ID, ShouldEqual, ids[2])
			})

			Convey("A corrupted manifest is skipped, not fatal", func() {
				So(os.WriteFile(store.Path(ids[1]), []byte("{not json"), 0o644), ShouldBeNil)

				summaries, err := store.List(0)
				So(err, ShouldBeNil)
				So(summaries, ShouldHaveLength, 2)
			})
		})

		Convey("IDsOlderThan returns only manifests past the cutoff", func() {
			start := time.Now()
			So(store.Write(domain.NewManifest(terminalRun("backup_old_aaaaaa", start))), ShouldBeNil)
			So(store.Write(domain.NewManifest(terminalRun("backup_new_bbbbbb", start))), ShouldBeNil)

			old := time.Now().Add(-48 * time.Hour)
			So(os.Chtimes(store.Path("backup_old_aaaaaa"), old, old), ShouldBeNil)

			ids, err := store.IDsOlderThan(time.Now().Add(-24 * time.Hour))
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, []string{"backup_old_aaaaaa"})
		})

		Convey("Delete is idempotent", func() {
			start := time.Now()
			So(store.Write(domain.NewManifest(terminalRun("backup_del_cccccc", start))), ShouldBeNil)

			So(store.Delete("backup_del_cccccc"), ShouldBeNil)
			So(store.Exists("backup_del_cccccc"), ShouldBeFalse)
			So(store.Delete("backup_del_cccccc"), ShouldBeNil)
		})
	})
}
