package reminders

import (
	"context"
	"sync"
)

// MemoryLedger keeps per-user entries in memory, for tests and ephemeral
// deployments.
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[string][]Entry
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[string][]Entry)}
}

func (l *MemoryLedger) AlreadySent(ctx context.Context, username, key, date string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries[username] {
		if e.Key == key && e.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (l *MemoryLedger) MarkSent(ctx context.Context, username, key, date string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := append(l.entries[username], Entry{Key: key, Date: date})
	if len(entries) > maxLedgerEntries {
		entries = entries[len(entries)-maxLedgerEntries:]
	}
	l.entries[username] = entries
	return nil
}
