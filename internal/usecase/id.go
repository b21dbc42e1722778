package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBackupID builds a run ID of the form backup_2024-01-01_02-00-00_a1b2c3.
// The random suffix keeps concurrent invocations from colliding even within
// the same second.
func NewBackupID(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("backup_%s_%s", t.Format("2006-01-02_15-04-05"), suffix)
}
