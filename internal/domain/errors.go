package domain

import (
	"errors"
	"fmt"
)

// ErrManifestNotFound is returned by manifest lookups for unknown backup IDs.
var ErrManifestNotFound = errors.New("manifest not found")

// DumpError reports a failed database dump or restore-replay subprocess.
type DumpError struct {
	Tool     string
	ExitCode int
	Output   string
}

func (e *DumpError) Error() string {
	return fmt.Sprintf("%s failed with exit code %d: %s", e.Tool, e.ExitCode, e.Output)
}

// ArchiveError reports a failed file-archive subprocess or a missing archive.
type ArchiveError struct {
	ExitCode int
	Output   string
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive tool failed with exit code %d: %s", e.ExitCode, e.Output)
}

// IntegrityError reports a checksum mismatch detected at restore-verify time.
// Restore never proceeds past it for the affected component.
type IntegrityError struct {
	Component string
	Want      string
	Got       string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: manifest records %s, artifact has %s",
		e.Component, e.Want, e.Got)
}

// PersistError reports a manifest write failure. A run whose manifest cannot
// be persisted is not successful even if every artifact was produced.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist manifest %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// UploadError reports a failed remote replication of one artifact. It is
// logged by the orchestrator but never fails an already-successful run.
type UploadError struct {
	Target   string
	Artifact string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s to %s: %v", e.Artifact, e.Target, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
