package documents

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Repo defines persistence operations for document metadata.
type Repo interface {
	// Upsert records metadata for a user's document, replacing any existing
	// record with the same filename.
	Upsert(ctx context.Context, username string, doc Document) error
	ListByUser(ctx context.Context, username string) ([]Document, error)
	// ListUsers returns every username with at least one document record.
	ListUsers(ctx context.Context) ([]string, error)
}
