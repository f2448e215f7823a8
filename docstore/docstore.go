// Package docstore provides the key/value document store the core reads
// authority records from and writes practitioner profiles to. Documents are
// addressed by collection and id; membership in an authority collection is
// signalled by document presence, not content.
package docstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound signals that no document exists for the collection and id.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrPermissionDenied signals the caller lacks read access to the
	// collection. Role resolution treats this as absence, not failure.
	ErrPermissionDenied = errors.New("docstore: permission denied")
)

// Document is an untyped field set, mirroring what the backing store holds.
type Document map[string]any

// Client is the document store boundary the core depends on.
type Client interface {
	// Get returns the document or ErrNotFound / ErrPermissionDenied.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Set writes the full field set, creating or replacing the document.
	Set(ctx context.Context, collection, id string, fields Document) error
	// Update merges partial fields into an existing document. Returns
	// ErrNotFound if the document does not exist.
	Update(ctx context.Context, collection, id string, partial Document) error
	// Delete removes the document. Returns ErrNotFound if absent.
	Delete(ctx context.Context, collection, id string) error
	// ListAll returns every document in the collection; each returned
	// document carries its id under the "id" key.
	ListAll(ctx context.Context, collection string) ([]Document, error)
}
