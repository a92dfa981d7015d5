package data

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/twilio-care-bridge/internal/biz/repo"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// twilioRepo implements the Messenger repository via the Twilio REST API
type twilioRepo struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioRepo creates a Messenger repository backed by Twilio.
// from is the provisioned sender address, e.g. "whatsapp:+14155238886".
func NewTwilioRepo(accountSID, authToken, from string, timeout time.Duration) repo.MessengerRepo {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &twilioRepo{client: client, from: from}
}

// SendText sends a text message to the given address. The REST call runs
// in the background so the caller's context deadline is honored.
func (r *twilioRepo) SendText(ctx context.Context, to, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(r.from)
	params.SetBody(body)

	done := make(chan error, 1)
	go func() {
		_, err := r.client.Api.CreateMessage(params)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("twilio send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("twilio send: %w", ctx.Err())
	}
}
