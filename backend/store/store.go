package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Doc is one raw record from a collection read, in insertion order.
type Doc struct {
	ID   string
	Data map[string]interface{}
}

// DocumentStore is the boundary to the backing document database. Any
// structured-document backend satisfying these operations is substitutable;
// the production implementation sits on a JSONB table (see gorm.go) and tests
// use sqlite or in-memory fakes.
type DocumentStore interface {
	// GetDocument returns the raw document, or ErrNotFound.
	GetDocument(ctx context.Context, collection, id string) (map[string]interface{}, error)

	// GetCollection returns all documents in a collection in insertion
	// order. A collection that was never written to reads as empty, not as
	// an error.
	GetCollection(ctx context.Context, collection string) ([]Doc, error)

	// SetDocument creates or fully replaces a document.
	SetDocument(ctx context.Context, collection, id string, data map[string]interface{}) error

	// UpdateDocument shallow-merges the patch into an existing document.
	// Returns ErrNotFound when the document does not exist.
	UpdateDocument(ctx context.Context, collection, id string, patch map[string]interface{}) error
}
