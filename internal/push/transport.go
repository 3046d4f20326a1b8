package push

import (
	"context"
	"errors"

	"driver-portal/internal/subscriptions"
)

// ErrEndpointGone signals a permanent delivery failure: the push service has
// revoked the endpoint and it will never succeed again.
var ErrEndpointGone = errors.New("push endpoint gone")

// Transport attempts exactly one delivery to one endpoint. Implementations
// return ErrEndpointGone for permanent failures and any other error for
// transient ones.
type Transport interface {
	Send(ctx context.Context, sub subscriptions.Subscription, payload []byte) error
}

// Payload is the notification body sent to the browser.
type Payload struct {
	Title string      `json:"title"`
	Body  string      `json:"body"`
	Data  PayloadData `json:"data"`
}

// PayloadData carries the click-through target.
type PayloadData struct {
	URL string `json:"url"`
}

// Result aggregates one fan-out: successful deliveries and per-endpoint
// error messages.
type Result struct {
	Sent   int      `json:"sent"`
	Errors []string `json:"errors"`
}
