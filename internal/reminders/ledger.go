package reminders

import (
	"context"
	"fmt"
)

// maxLedgerEntries bounds the per-user ledger. Older entries age out by
// count, never by date.
const maxLedgerEntries = 500

// Entry is one recorded reminder: which threshold crossing fired and on
// which calendar date.
type Entry struct {
	Key  string `json:"key"`
	Date string `json:"date"`
}

// Key builds the ledger key for a document's threshold crossing. Expired
// documents always key on the ExpiredBucket sentinel, not the raw overdue
// count.
func Key(filename string, bucket int) string {
	return fmt.Sprintf("%s|%d", filename, bucket)
}

// Ledger answers "was this exact reminder already sent today?" and records
// sends. Implementations keep at most maxLedgerEntries per user, evicting
// oldest first.
type Ledger interface {
	AlreadySent(ctx context.Context, username, key, date string) (bool, error)
	MarkSent(ctx context.Context, username, key, date string) error
}

// StorageError wraps I/O failures from the ledger or its collaborator
// stores. It is the only hard failure the reminder run surfaces, letting a
// scheduler alert instead of silently losing a run.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("reminder storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
