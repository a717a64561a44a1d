// Package email delivers outbound notification emails through a pluggable provider.
package email

import (
	"context"
	"time"
)

// Message is a plain-text email ready for delivery.
type Message struct {
	From    string   // Sender, e.g. "Site <noreply@example.com>"
	To      []string // Recipient addresses
	Subject string
	Text    string
	ReplyTo string
}

// SendResult describes a message accepted by a provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender abstracts an email provider (Resend, SMTP, log-only) for DI and testing.
type Sender interface {
	Send(ctx context.Context, msg Message) (SendResult, error)
	// Name is the provider label used in logs and metrics.
	Name() string
}

// Provider names
const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
	ProviderLog    = "log"
)
