package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"driver-portal/internal/shared/storage/files"
	"driver-portal/internal/shared/util"
)

// Store implements files.Store on the local filesystem, one directory per
// user slug with a subdirectory per category.
type Store struct {
	baseDir string
}

// New creates a local file store rooted at baseDir.
func New(baseDir string) files.Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) categoryDir(username, category string) (string, error) {
	if !files.ValidCategory(category) {
		return "", fmt.Errorf("invalid category %q", category)
	}
	return filepath.Join(s.baseDir, util.Slug(username), category), nil
}

// Save writes the reader to disk. An existing file with the same name is kept;
// the new file gets a timestamp suffix instead.
func (s *Store) Save(ctx context.Context, username, category, fileName string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", 0, fmt.Errorf("sanitize file name: %w", err)
	}

	dir, err := s.categoryDir(username, category)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("mkdir: %w", err)
	}

	finalName := sanitized
	fullPath := filepath.Join(dir, finalName)
	if _, statErr := os.Stat(fullPath); statErr == nil {
		ext := filepath.Ext(sanitized)
		stem := strings.TrimSuffix(sanitized, ext)
		finalName = fmt.Sprintf("%s_%d%s", stem, time.Now().Unix(), ext)
		fullPath = filepath.Join(dir, finalName)
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		return "", 0, fmt.Errorf("write body: %w", err)
	}
	return finalName, size, nil
}

// Open opens a stored file for reading.
func (s *Store) Open(ctx context.Context, username, category, fileName string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return nil, err
	}
	dir, err := s.categoryDir(username, category)
	if err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(dir, sanitized))
}

// List returns the files stored under the user's category, sorted by name.
func (s *Store) List(ctx context.Context, username, category string) ([]files.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := s.categoryDir(username, category)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []files.FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, files.FileInfo{
			Name:    e.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
