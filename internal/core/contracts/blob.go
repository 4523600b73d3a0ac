package contracts

import (
	"context"
	"io"
)

// BlobStore persists uploaded attachments. Paths returned by Save are opaque
// references carried inside messages.
type BlobStore interface {
	Save(ctx context.Context, path string, r io.Reader) (int64, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}
