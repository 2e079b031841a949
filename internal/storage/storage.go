package storage

import (
	"context"
	"errors"
	"time"
)

// Package storage contains object storage abstractions for S3-compatible
// stores. The application server never proxies avatar bytes: clients write
// and read directly against presigned URLs issued here.

// ErrObjectNotFound is returned by Stat when no object exists at the key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo contains basic metadata about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Storage is a reusable, S3-compatible object storage client interface.
// Any provider offering presigned writes, presigned reads, a metadata probe,
// and deletion by key is interchangeable.
type Storage interface {
	// PresignPut returns a time-limited URL authorizing exactly one kind of
	// direct write (HTTP PUT) to the given key.
	PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error)
	// PresignGet returns a time-limited URL that can be used to download the
	// object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// Stat probes the object metadata at key. Returns ErrObjectNotFound when
	// the key does not exist.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	// Delete removes an object by key. Deleting a non-existent object is not
	// an error.
	Delete(ctx context.Context, key string) error
}
