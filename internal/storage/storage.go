package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
}

// ObjectStore is the object-storage capability the document services depend
// on. Implementations must never overwrite an existing key; callers derive
// collision-free paths.
type ObjectStore interface {
	// Put writes size bytes from reader to bucket/path.
	Put(ctx context.Context, bucket, path string, reader io.Reader, size int64, contentType string) error

	// Remove deletes the object at bucket/path. Removing a missing object
	// is not an error.
	Remove(ctx context.Context, bucket, path string) error

	// Stat reports whether an object exists at bucket/path.
	Stat(ctx context.Context, bucket, path string) (bool, error)

	// SignedURL returns a time-limited read URL for bucket/path. URLs are
	// minted per request and never persisted.
	SignedURL(ctx context.Context, bucket, path string, expiry time.Duration) (string, error)

	// List returns metadata for every object in bucket under prefix.
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}
