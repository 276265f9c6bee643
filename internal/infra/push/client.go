// internal/infra/push/client.go
package push

import (
	"context"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"care_notification_service/internal/domain/user"
)

// Client sends Web Push notifications signed with the service's VAPID keys.
type Client struct {
	subscriber      string // mailto: address the push service may contact
	vapidPublicKey  string
	vapidPrivateKey string
	ttl             int // seconds the push service may retain an undelivered message
}

func NewClient(subscriber, vapidPublicKey, vapidPrivateKey string) *Client {
	return &Client{
		subscriber:      subscriber,
		vapidPublicKey:  vapidPublicKey,
		vapidPrivateKey: vapidPrivateKey,
		ttl:             60,
	}
}

// Send delivers one payload to the subscription's endpoint. The push service
// acknowledging the request is all we get; delivery receipts are not part of
// the protocol.
func (c *Client) Send(ctx context.Context, sub *user.PushSubscription, payload []byte) error {
	s := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, s, &webpush.Options{
		Subscriber:      c.subscriber,
		VAPIDPublicKey:  c.vapidPublicKey,
		VAPIDPrivateKey: c.vapidPrivateKey,
		TTL:             c.ttl,
	})
	if err != nil {
		return fmt.Errorf("error sending push notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("push service rejected notification: status %d", resp.StatusCode)
	}
	return nil
}
