package push

import (
	"context"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"driver-portal/internal/subscriptions"
)

// WebPushTransport delivers payloads over the Web Push protocol with VAPID
// authentication.
type WebPushTransport struct {
	Subject    string
	PublicKey  string
	PrivateKey string
	TTL        int
}

// NewWebPushTransport constructs a transport with the given VAPID credentials.
func NewWebPushTransport(subject, publicKey, privateKey string) *WebPushTransport {
	return &WebPushTransport{
		Subject:    subject,
		PublicKey:  publicKey,
		PrivateKey: privateKey,
		TTL:        60,
	}
}

// Send performs a single delivery attempt. HTTP 404/410 from the push service
// means the subscription is permanently gone.
func (t *WebPushTransport) Send(ctx context.Context, sub subscriptions.Subscription, payload []byte) error {
	ws := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, ws, &webpush.Options{
		Subscriber:      t.Subject,
		VAPIDPublicKey:  t.PublicKey,
		VAPIDPrivateKey: t.PrivateKey,
		TTL:             t.TTL,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("%w: status %d", ErrEndpointGone, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}
	return nil
}
