package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func writeConfig(dir, content string) string {
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte(content), 0o644)
	return path
}

func TestLoad(t *testing.T) {
	Convey("Given a config file", t, func() {
		tempDir, err := os.MkdirTemp("", "config_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		Convey("When loading a minimal valid config", func() {
			path := writeConfig(tempDir, `
database:
  host: db.internal
  username: backup
  password: secret
  database: appdb
backup:
  local_path: /var/backups/app
`)
			cfg, err := Load(path)

			Convey("It should apply defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.App.Name, ShouldEqual, "snapvault")
				So(cfg.Database.Engine, ShouldEqual, "mysql")
				So(cfg.Database.Port, ShouldEqual, 3306)
				So(cfg.Database.DumpTimeout, ShouldEqual, 30*time.Minute)
				So(cfg.Backup.RetentionDays, ShouldEqual, 30)
				So(cfg.Backup.Schedule, ShouldEqual, "0 0 2 * * *")
			})
		})

		Convey("When the engine is unsupported", func() {
			path := writeConfig(tempDir, `
database:
  engine: oracle
  host: db.internal
  database: appdb
backup:
  local_path: /var/backups/app
`)
			_, err := Load(path)

			Convey("Validation should reject it", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "engine")
			})
		})

		Convey("When backup.local_path is missing", func() {
			path := writeConfig(tempDir, `
database:
  host: db.internal
  database: appdb
`)
			_, err := Load(path)

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "local_path")
		})

		Convey("When retention is below one day", func() {
			path := writeConfig(tempDir, `
database:
  host: db.internal
  database: appdb
backup:
  local_path: /var/backups/app
  retention_days: 0
`)
			_, err := Load(path)

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "retention_days")
		})

		Convey("When upload targets are configured", func() {
			path := writeConfig(tempDir, `
database:
  host: db.internal
  database: appdb
backup:
  local_path: /var/backups/app
  upload_targets:
    - type: s3
      enabled: true
      bucket: app-backups
      region: eu-west-1
    - type: telegram
      enabled: false
      bot_token: token
`)
			cfg, err := Load(path)

			Convey("Only enabled targets are returned", func() {
				So(err, ShouldBeNil)
				targets := cfg.GetEnabledUploadTargets()
				So(targets, ShouldHaveLength, 1)
				So(targets[0].Type, ShouldEqual, "s3")
				So(targets[0].Bucket, ShouldEqual, "app-backups")
			})
		})

		Convey("When the file does not exist", func() {
			_, err := Load(filepath.Join(tempDir, "missing.yaml"))
			So(err, ShouldNotBeNil)
		})
	})
}
