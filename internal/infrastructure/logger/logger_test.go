package logger

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given the logger package", t, func() {
		Convey("When creating a logger with console output only", func() {
			log, err := New("info", "")

			Convey("It should create a logger successfully", func() {
				So(err, ShouldBeNil)
				So(log, ShouldNotBeNil)
				So(func() { log.Infof("test %s", "message") }, ShouldNotPanic)
			})
		})

		Convey("When creating a logger with a log file", func() {
			tempDir, err := os.MkdirTemp("", "logger_test")
			So(err, ShouldBeNil)
			defer os.RemoveAll(tempDir)

			logFile := filepath.Join(tempDir, "snapvault.log")
			log, err := New("debug", logFile)

			Convey("It should tee into the file", func() {
				So(err, ShouldBeNil)
				So(log, ShouldNotBeNil)

				log.Debugf("test debug log")
				log.Close()

				_, err := os.Stat(logFile)
				So(err, ShouldBeNil)
			})
		})

		Convey("When the log level is unknown", func() {
			log, err := New("chatty", "")

			Convey("It should fall back to info", func() {
				So(err, ShouldBeNil)
				So(log, ShouldNotBeNil)
				So(func() { log.Infof("still works") }, ShouldNotPanic)
			})
		})

		Convey("When the log file directory cannot be created", func() {
			log, err := New("info", "/proc/nonexistent/snapvault.log")

			Convey("It should return an error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "failed to create log directory")
				So(log, ShouldBeNil)
			})
		})

		Convey("When closing", func() {
			log, err := New("info", "")
			So(err, ShouldBeNil)

			Convey("It should not panic", func() {
				So(func() { log.Close() }, ShouldNotPanic)
			})
		})
	})
}
