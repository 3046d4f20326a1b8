package subscriptions

import (
	"context"
	"database/sql"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Add(ctx context.Context, username string, sub Subscription) error {
	if username == "" || sub.Endpoint == "" {
		return ErrInvalidInput
	}
	// created_at is refreshed so a re-subscribed endpoint moves to the end
	// of ListByUser's order, matching the memory and file repos.
	const query = `
INSERT INTO push_subscriptions (username, endpoint, p256dh, auth, created_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (username, endpoint) DO UPDATE SET
  p256dh = EXCLUDED.p256dh,
  auth = EXCLUDED.auth,
  created_at = now()`
	_, err := r.DB.ExecContext(ctx, query, username, sub.Endpoint, sub.Keys.P256dh, sub.Keys.Auth)
	return err
}

func (r *PGRepo) ListByUser(ctx context.Context, username string) ([]Subscription, error) {
	const query = `
SELECT endpoint, p256dh, auth
FROM push_subscriptions
WHERE username = $1
ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(&sub.Endpoint, &sub.Keys.P256dh, &sub.Keys.Auth); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *PGRepo) Remove(ctx context.Context, username, endpoint string) error {
	const query = `DELETE FROM push_subscriptions WHERE username = $1 AND endpoint = $2`
	_, err := r.DB.ExecContext(ctx, query, username, endpoint)
	return err
}
