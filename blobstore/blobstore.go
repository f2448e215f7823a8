// Package blobstore provides content storage for practitioner photos. Blobs
// are addressed by path; the profile asset path is derived from the profile
// id, so one profile never owns more than one live blob.
package blobstore

import (
	"context"
	"errors"
)

// ErrNotFound signals that no blob exists at the path. Deletion paths in the
// core treat it as success.
var ErrNotFound = errors.New("blobstore: blob not found")

// Client is the blob store boundary the core depends on.
type Client interface {
	// Upload stores content at path, replacing whatever was there, and
	// returns the reference consumers use to fetch it.
	Upload(ctx context.Context, path string, data []byte) (string, error)
	// Reference returns the reference for a path without touching content.
	Reference(path string) string
	// Delete removes the blob. Returns ErrNotFound if absent.
	Delete(ctx context.Context, path string) error
}
