package domain

import (
	"context"
	"time"
)

// BlobStore is the generic remote object-storage abstraction used for
// off-site replication. Keys are date-partitioned (year/month/day/filename).
type BlobStore interface {
	Upload(ctx context.Context, localPath string, key string) error
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, key string) error
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
}
