package storage

import (
	"context"
	"io"
	"time"
)

// Package storage is the attachment object-store collaborator (S3-compatible).
// The lifecycle core calls it only after its own transaction has committed;
// a failed upload never rolls back a committed transition.
// Implementations must avoid local disk and rely on streaming I/O only.

// PutObjectOptions define optional parameters for uploading attachments.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored attachment.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// AttachmentStore is the object storage client used for submitted document
// payloads. Methods use context and streaming readers; no local disk.
type AttachmentStore interface {
	// Put uploads an attachment under the given key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an attachment's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an attachment by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL for downloading without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
