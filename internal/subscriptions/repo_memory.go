package subscriptions

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repo for tests and DB-less runs.
type MemoryRepo struct {
	mu   sync.RWMutex
	subs map[string][]Subscription
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{subs: make(map[string][]Subscription)}
}

func (r *MemoryRepo) Add(ctx context.Context, username string, sub Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if username == "" || sub.Endpoint == "" {
		return ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.subs[username]
	kept := list[:0]
	for _, s := range list {
		if s.Endpoint != sub.Endpoint {
			kept = append(kept, s)
		}
	}
	r.subs[username] = append(kept, sub)
	return nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, username string) ([]Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Subscription, len(r.subs[username]))
	copy(out, r.subs[username])
	return out, nil
}

func (r *MemoryRepo) Remove(ctx context.Context, username, endpoint string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.subs[username]
	kept := list[:0]
	for _, s := range list {
		if s.Endpoint != endpoint {
			kept = append(kept, s)
		}
	}
	r.subs[username] = kept
	return nil
}
