package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioProvider sends SMS through the Twilio Messages API.
type TwilioProvider struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioProvider(accountSID, authToken, from string) *TwilioProvider {
	return &TwilioProvider{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (p *TwilioProvider) Code() string {
	return "twilio"
}

func (p *TwilioProvider) Send(ctx context.Context, recipient, message string) (string, error) {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(p.from)
	params.SetBody(message)

	resp, err := p.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio send: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

var _ Provider = (*TwilioProvider)(nil)
