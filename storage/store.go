// Package storage persists uploaded file blobs behind a small
// interface so the rest of the app doesn't care whether they live on
// the local disk or in an S3 bucket.
package storage

import (
	"context"
	"io"

	"github.com/spf13/viper"
)

type Store interface {
	// Save writes a blob under key. size may be -1 when unknown.
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Open returns a reader over the blob. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes blobs. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// New builds the store selected by storage.type
func New() (Store, error) {
	if viper.GetString("storage.type") == "s3" {
		return newS3Store()
	}

	return newLocalStore(viper.GetString("storage.local_dir"))
}
