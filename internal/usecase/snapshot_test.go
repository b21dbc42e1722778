package usecase

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSnapshotBuilder(t *testing.T) {
	Convey("Given a snapshot builder", t, func() {
		tempDir, err := os.MkdirTemp("", "snapvault_snapshot_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		sensitive := filepath.Join(tempDir, "app.conf")
		So(os.WriteFile(sensitive, []byte("key=value"), 0o600), ShouldBeNil)
		missing := filepath.Join(tempDir, "does-not-exist")

		db := &fakeDatabase{schemaDigest: "abc123def456"}
		registrar := &fakeRegistrar{}
		So(registrar.Install("full-backup", "0 0 2 * * *", nil), ShouldBeNil)

		builder := NewSnapshotBuilder(db, fakeRunner{}, registrar,
			"snapvault-test", "db.internal", 3306, "appdb",
			[]string{sensitive, missing})

		Convey("When building a snapshot", func() {
			doc, err := builder.Build(context.Background())
			So(err, ShouldBeNil)

			var snapshot Snapshot
			So(json.Unmarshal(doc, &snapshot), ShouldBeNil)

			Convey("It should capture the schema digest and engine metadata", func() {
				So(snapshot.Database.SchemaDigest, ShouldEqual, "abc123def456")
				So(snapshot.Database.Engine, ShouldEqual, "mysql")
				So(snapshot.Database.Host, ShouldEqual, "db.internal")
				So(snapshot.Database.Name, ShouldEqual, "appdb")
			})

			Convey("It should record tool versions", func() {
				So(snapshot.ToolVersions["tar"], ShouldContainSubstring, "tar")
				So(snapshot.ToolVersions["mysqldump"], ShouldContainSubstring, "mysqldump")
			})

			Convey("It should record permission bits, flagging missing paths", func() {
				So(snapshot.FilePermissions[sensitive], ShouldEqual, "0600")
				So(snapshot.FilePermissions[missing], ShouldEqual, "absent")
			})

			Convey("It should list registered schedule entries", func() {
				So(snapshot.Schedules, ShouldHaveLength, 1)
				So(snapshot.Schedules[0].Name, ShouldEqual, "full-backup")
			})

			Convey("It should never contain credential material", func() {
				So(string(doc), ShouldNotContainSubstring, "password")
				So(string(doc), ShouldNotContainSubstring, "secret")
			})
		})
	})
}
