// internal/infra/sms/client.go
package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Client sends text messages through Twilio. Construct it only when
// credentials are configured; callers with no Client leave the SMS channel
// permanently skipped.
type Client struct {
	rest *twilio.RestClient
	from string
}

func NewClient(accountSID, authToken, from string, timeout time.Duration) *Client {
	base := &twclient.Client{
		Credentials: twclient.NewCredentials(accountSID, authToken),
	}
	base.SetTimeout(timeout)

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
		Client:   base,
	})
	return &Client{rest: rest, from: from}
}

// Send delivers one text message. The Twilio SDK carries no context through
// its API; the request timeout set at construction bounds the call instead.
func (c *Client) Send(_ context.Context, to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(body)

	if _, err := c.rest.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("error sending SMS: %w", err)
	}
	return nil
}
