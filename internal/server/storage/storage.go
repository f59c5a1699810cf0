// Package storage abstracts the optional object-store backend for file
// payloads. The default deployment keeps payloads in the blobs table; when
// the S3 backend is configured, blob rows carry only a storage key and the
// bytes live in the bucket.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ObjectStore is the minimal object-storage surface the file service needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, content []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// NewStorageKey returns a fresh object key, partitioned by upload date so
// bucket listings stay navigable.
func NewStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("files/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}
