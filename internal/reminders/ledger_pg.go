package reminders

import (
	"context"
	"database/sql"
)

type PGLedger struct {
	DB *sql.DB
}

func (l *PGLedger) AlreadySent(ctx context.Context, username, key, date string) (bool, error) {
	const query = `
SELECT EXISTS (
  SELECT 1 FROM reminder_log WHERE username = $1 AND key = $2 AND sent_on = $3
)`
	var exists bool
	if err := l.DB.QueryRowContext(ctx, query, username, key, date).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (l *PGLedger) MarkSent(ctx context.Context, username, key, date string) error {
	const insert = `INSERT INTO reminder_log (username, key, sent_on) VALUES ($1, $2, $3)`
	if _, err := l.DB.ExecContext(ctx, insert, username, key, date); err != nil {
		return err
	}
	// Count-bounded eviction, oldest first.
	const trim = `
DELETE FROM reminder_log
WHERE username = $1 AND id NOT IN (
  SELECT id FROM reminder_log WHERE username = $1 ORDER BY id DESC LIMIT $2
)`
	_, err := l.DB.ExecContext(ctx, trim, username, maxLedgerEntries)
	return err
}
