package subscriptions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"driver-portal/internal/shared/util"
)

const subscriptionsFileName = "_subscriptions.json"

// FileRepo stores all users' subscriptions in a single JSON file keyed by
// username slug, mirroring the portal's on-disk layout. The slug matches the
// per-user directory names used by the document and ledger files, so a sweep
// over those directories finds the same identities here.
type FileRepo struct {
	mu   sync.Mutex
	path string
}

func NewFileRepo(baseDir string) *FileRepo {
	return &FileRepo{path: filepath.Join(baseDir, subscriptionsFileName)}
}

func (r *FileRepo) load() (map[string][]Subscription, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]Subscription{}, nil
		}
		return nil, fmt.Errorf("read subscriptions: %w", err)
	}
	out := map[string][]Subscription{}
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string][]Subscription{}, nil
	}
	return out, nil
}

func (r *FileRepo) save(data map[string][]Subscription) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return fmt.Errorf("write subscriptions: %w", err)
	}
	return nil
}

func (r *FileRepo) Add(ctx context.Context, username string, sub Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if username == "" || sub.Endpoint == "" {
		return ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := r.load()
	if err != nil {
		return err
	}
	key := util.Slug(username)
	list := data[key]
	kept := list[:0]
	for _, s := range list {
		if s.Endpoint != sub.Endpoint {
			kept = append(kept, s)
		}
	}
	data[key] = append(kept, sub)
	return r.save(data)
}

func (r *FileRepo) ListByUser(ctx context.Context, username string) ([]Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := r.load()
	if err != nil {
		return nil, err
	}
	return data[util.Slug(username)], nil
}

func (r *FileRepo) Remove(ctx context.Context, username, endpoint string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := r.load()
	if err != nil {
		return err
	}
	key := util.Slug(username)
	list := data[key]
	kept := list[:0]
	for _, s := range list {
		if s.Endpoint != endpoint {
			kept = append(kept, s)
		}
	}
	data[key] = kept
	return r.save(data)
}
