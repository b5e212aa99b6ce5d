package blobstore

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrStorageUnavailable indicates the object store could not be reached.
	ErrStorageUnavailable = errors.New("object storage unavailable")
	// ErrIOFailure indicates the payload could not be read or transferred.
	ErrIOFailure = errors.New("failed to transfer object payload")
)

// DefaultSignedURLTTL is how long a retrieval URL stays valid when no
// expiry is configured.
const DefaultSignedURLTTL = time.Hour

// BlobStore is the contract the catalog service depends on for product
// images. Signed URL lifetime is the store's own policy, fixed at
// construction. Delete is best-effort: callers are expected to log and
// discard its error rather than fail the surrounding operation.
type BlobStore interface {
	Store(ctx context.Context, payload []byte, suggestedName string) (string, error)
	SignedURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NormalizeKey reduces a stored image reference to a bare object key.
// Legacy rows hold full URLs; the key is the segment after the last '/'.
func NormalizeKey(key string) string {
	if strings.HasPrefix(key, "http") {
		if idx := strings.LastIndex(key, "/"); idx >= 0 {
			return key[idx+1:]
		}
	}
	return key
}
