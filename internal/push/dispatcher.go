package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"driver-portal/internal/shared/metrics"
	"driver-portal/internal/shared/telemetry"
	"driver-portal/internal/subscriptions"
)

// Dispatcher fans a payload out to every registered endpoint of a user and
// prunes endpoints the transport reports as permanently gone.
type Dispatcher struct {
	Subs       subscriptions.Repo
	Transport  Transport
	Configured bool
}

// NewDispatcher constructs a Dispatcher. Configured should be false when no
// VAPID credentials are present, in which case dispatch is a no-op.
func NewDispatcher(subs subscriptions.Repo, transport Transport, configured bool) *Dispatcher {
	return &Dispatcher{Subs: subs, Transport: transport, Configured: configured}
}

// Dispatch attempts delivery to each of the user's subscriptions in storage
// order. One endpoint's failure never aborts the others. The returned error
// is non-nil only for subscription-store failures.
func (d *Dispatcher) Dispatch(ctx context.Context, username string, payload Payload) (Result, error) {
	if !d.Configured {
		return Result{Sent: 0, Errors: []string{"not configured"}}, nil
	}

	subs, err := d.Subs.ListByUser(ctx, username)
	if err != nil {
		return Result{}, fmt.Errorf("list subscriptions: %w", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("encode payload: %w", err)
	}

	var result Result
	for _, sub := range subs {
		sendErr := d.Transport.Send(ctx, sub, data)
		if sendErr == nil {
			result.Sent++
			metrics.IncPushDelivered()
			continue
		}

		result.Errors = append(result.Errors, sendErr.Error())
		metrics.IncPushFailed()

		if errors.Is(sendErr, ErrEndpointGone) {
			if rmErr := d.Subs.Remove(ctx, username, sub.Endpoint); rmErr != nil {
				return result, fmt.Errorf("prune subscription: %w", rmErr)
			}
			metrics.IncSubscriptionPruned()
			telemetry.Warn("push.subscription_pruned", map[string]any{
				"username": username,
				"endpoint": sub.Endpoint,
			})
		}
	}
	return result, nil
}
