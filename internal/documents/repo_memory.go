package documents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for tests and DB-less runs.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string][]Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string][]Document)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, username string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if username == "" || doc.Filename == "" {
		return ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.docs[username]
	kept := list[:0]
	for _, d := range list {
		if d.Filename != doc.Filename {
			kept = append(kept, d)
		}
	}
	r.docs[username] = append(kept, doc)
	return nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, username string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Document, len(r.docs[username]))
	copy(out, r.docs[username])
	return out, nil
}

func (r *MemoryRepo) ListUsers(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]string, 0, len(r.docs))
	for u := range r.docs {
		users = append(users, u)
	}
	sort.Strings(users)
	return users, nil
}
