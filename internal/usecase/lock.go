package usecase

import (
	"fmt"
	"os"
	"path/filepath"
)

// acquireLock takes the per-ID advisory lock that serializes restore and
// cleanup against the same backup. The lock is a file created exclusively;
// a stale lock after a crash must be removed by the operator.
func acquireLock(path string) (release func(), err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("another operation holds lock %s", filepath.Base(path))
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}

	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()

	return func() { os.Remove(path) }, nil
}

func isLocked(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
