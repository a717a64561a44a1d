package email

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers messages through the Resend HTTP API.
type ResendSender struct {
	client *resend.Client
}

// NewResendSender builds a Resend-backed sender. baseURL overrides the API
// endpoint when non-empty; httpClient may be nil to use the SDK default.
func NewResendSender(apiKey, baseURL string, httpClient *http.Client) (*ResendSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}

	var client *resend.Client
	if httpClient != nil {
		client = resend.NewCustomClient(httpClient, apiKey)
	} else {
		client = resend.NewClient(apiKey)
	}

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid resend base url: %w", err)
		}
		client.BaseURL = u
	}

	return &ResendSender{client: client}, nil
}

func (s *ResendSender) Name() string { return ProviderResend }

// Send submits msg to Resend. Any API-level rejection is returned as an error.
func (s *ResendSender) Send(ctx context.Context, msg Message) (SendResult, error) {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	})
	if err != nil {
		return SendResult{}, fmt.Errorf("resend send: %w", err)
	}

	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}
