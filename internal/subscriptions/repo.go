package subscriptions

import (
	"context"
	"errors"
)

var ErrInvalidInput = errors.New("invalid subscription")

// Repo defines persistence operations for push subscriptions.
type Repo interface {
	// Add registers a subscription, replacing any existing one with the same
	// endpoint.
	Add(ctx context.Context, username string, sub Subscription) error
	// ListByUser returns a user's subscriptions in insertion order.
	ListByUser(ctx context.Context, username string) ([]Subscription, error)
	// Remove deletes the subscription with the given endpoint if present.
	Remove(ctx context.Context, username, endpoint string) error
}
