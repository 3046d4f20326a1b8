package reminders

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"driver-portal/internal/shared/util"
)

const logFileName = "_reminder_log.json"

type reminderLog struct {
	Sent []Entry `json:"sent"`
}

// FileLedger stores the ledger as one JSON file per user under baseDir,
// alongside that user's document metadata.
type FileLedger struct {
	mu      sync.Mutex
	baseDir string
}

func NewFileLedger(baseDir string) *FileLedger {
	return &FileLedger{baseDir: baseDir}
}

func (l *FileLedger) logPath(username string) string {
	return filepath.Join(l.baseDir, util.Slug(username), logFileName)
}

func (l *FileLedger) load(username string) (reminderLog, error) {
	data, err := os.ReadFile(l.logPath(username))
	if err != nil {
		if os.IsNotExist(err) {
			return reminderLog{}, nil
		}
		return reminderLog{}, fmt.Errorf("read reminder log: %w", err)
	}
	var log reminderLog
	if err := json.Unmarshal(data, &log); err != nil {
		// A corrupt log is treated as empty rather than blocking the run.
		return reminderLog{}, nil
	}
	return log, nil
}

func (l *FileLedger) save(username string, log reminderLog) error {
	path := l.logPath(username)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write reminder log: %w", err)
	}
	return nil
}

func (l *FileLedger) AlreadySent(ctx context.Context, username, key, date string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	log, err := l.load(username)
	if err != nil {
		return false, err
	}
	for _, e := range log.Sent {
		if e.Key == key && e.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (l *FileLedger) MarkSent(ctx context.Context, username, key, date string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	log, err := l.load(username)
	if err != nil {
		return err
	}
	log.Sent = append(log.Sent, Entry{Key: key, Date: date})
	if len(log.Sent) > maxLedgerEntries {
		log.Sent = log.Sent[len(log.Sent)-maxLedgerEntries:]
	}
	return l.save(username, log)
}
