package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"driver-portal/internal/shared/util"
)

const metaFileName = "_docs_meta.json"

type docsMeta struct {
	Docs []Document `json:"docs"`
}

// FileRepo stores document metadata as one JSON file per user under baseDir,
// mirroring the portal's on-disk layout.
type FileRepo struct {
	mu      sync.Mutex
	baseDir string
}

func NewFileRepo(baseDir string) *FileRepo {
	return &FileRepo{baseDir: baseDir}
}

func (r *FileRepo) metaPath(username string) string {
	return filepath.Join(r.baseDir, util.Slug(username), metaFileName)
}

func (r *FileRepo) load(username string) (docsMeta, error) {
	data, err := os.ReadFile(r.metaPath(username))
	if err != nil {
		if os.IsNotExist(err) {
			return docsMeta{}, nil
		}
		return docsMeta{}, fmt.Errorf("read docs meta: %w", err)
	}
	var meta docsMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		// Corrupt metadata is treated as empty, matching the portal's
		// forgiving load behavior.
		return docsMeta{}, nil
	}
	return meta, nil
}

func (r *FileRepo) save(username string, meta docsMeta) error {
	path := r.metaPath(username)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write docs meta: %w", err)
	}
	return nil
}

func (r *FileRepo) Upsert(ctx context.Context, username string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if username == "" || doc.Filename == "" {
		return ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	meta, err := r.load(username)
	if err != nil {
		return err
	}
	kept := meta.Docs[:0]
	for _, d := range meta.Docs {
		if d.Filename != doc.Filename {
			kept = append(kept, d)
		}
	}
	meta.Docs = append(kept, doc)
	return r.save(username, meta)
}

func (r *FileRepo) ListByUser(ctx context.Context, username string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	meta, err := r.load(username)
	if err != nil {
		return nil, err
	}
	return meta.Docs, nil
}

func (r *FileRepo) ListUsers(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var users []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(r.baseDir, e.Name(), metaFileName)); err == nil {
			users = append(users, e.Name())
		}
	}
	sort.Strings(users)
	return users, nil
}
