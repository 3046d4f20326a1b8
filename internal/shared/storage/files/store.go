package files

import (
	"context"
	"io"
	"time"
)

// Category names a per-user storage area.
const (
	CategoryDocs     = "docs"
	CategoryPhotos   = "photos"
	CategoryContract = "contract"
)

// ValidCategory reports whether name is a known storage category.
func ValidCategory(name string) bool {
	switch name {
	case CategoryDocs, CategoryPhotos, CategoryContract:
		return true
	}
	return false
}

// FileInfo describes a stored file.
type FileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mtime"`
}

// Store persists uploaded files per user and category.
type Store interface {
	// Save writes the reader under the user's category and returns the final
	// stored name, which may carry a timestamp suffix on collision.
	Save(ctx context.Context, username, category, fileName string, r io.Reader) (string, int64, error)
	Open(ctx context.Context, username, category, fileName string) (io.ReadCloser, error)
	List(ctx context.Context, username, category string) ([]FileInfo, error)
}
