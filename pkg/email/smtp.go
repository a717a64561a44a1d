package email

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

type sendMailFunc func(addr string, a sasl.Client, from string, to []string, r io.Reader) error

// SMTPSender delivers messages to an SMTP submission server.
type SMTPSender struct {
	addr     string
	auth     sasl.Client
	sendMail sendMailFunc
	now      func() time.Time
}

// SMTPOptions configures an SMTPSender.
type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
}

// NewSMTPSender creates an SMTP sender. PLAIN auth is used when a username is set.
func NewSMTPSender(opts SMTPOptions) (*SMTPSender, error) {
	if opts.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if opts.Port <= 0 {
		return nil, fmt.Errorf("smtp port must be positive")
	}

	var auth sasl.Client
	if opts.Username != "" {
		auth = sasl.NewPlainClient("", opts.Username, opts.Password)
	}

	return &SMTPSender{
		addr:     net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		auth:     auth,
		sendMail: smtp.SendMail,
		now:      time.Now,
	}, nil
}

func (s *SMTPSender) Name() string { return ProviderSMTP }

// Send composes msg as an RFC 5322 message and hands it to the server.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (SendResult, error) {
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}

	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return SendResult{}, fmt.Errorf("parse sender %q: %w", msg.From, err)
	}

	rcpts := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		addr, err := mail.ParseAddress(to)
		if err != nil {
			return SendResult{}, fmt.Errorf("parse recipient %q: %w", to, err)
		}
		rcpts = append(rcpts, addr.Address)
	}

	raw, messageID, err := s.compose(msg)
	if err != nil {
		return SendResult{}, err
	}

	if err := s.sendMail(s.addr, s.auth, from.Address, rcpts, bytes.NewReader(raw)); err != nil {
		return SendResult{}, fmt.Errorf("smtp send: %w", err)
	}

	return SendResult{MessageID: messageID, SentAt: s.now()}, nil
}

func (s *SMTPSender) compose(msg Message) ([]byte, string, error) {
	var h mail.Header
	h.SetDate(s.now())
	if err := h.GenerateMessageID(); err != nil {
		return nil, "", fmt.Errorf("generate message id: %w", err)
	}
	h.SetSubject(msg.Subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	from, err := mail.ParseAddressList(msg.From)
	if err != nil {
		return nil, "", fmt.Errorf("parse sender: %w", err)
	}
	h.SetAddressList("From", from)

	to := make([]*mail.Address, 0, len(msg.To))
	for _, addr := range msg.To {
		parsed, err := mail.ParseAddress(addr)
		if err != nil {
			return nil, "", fmt.Errorf("parse recipient: %w", err)
		}
		to = append(to, parsed)
	}
	h.SetAddressList("To", to)

	if msg.ReplyTo != "" {
		replyTo, err := mail.ParseAddress(msg.ReplyTo)
		if err != nil {
			return nil, "", fmt.Errorf("parse reply-to: %w", err)
		}
		h.SetAddressList("Reply-To", []*mail.Address{replyTo})
	}

	messageID, err := h.MessageID()
	if err != nil {
		return nil, "", fmt.Errorf("read message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, "", fmt.Errorf("create message writer: %w", err)
	}
	if _, err := io.WriteString(w, msg.Text); err != nil {
		return nil, "", fmt.Errorf("write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close message writer: %w", err)
	}

	return buf.Bytes(), messageID, nil
}
