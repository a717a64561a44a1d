package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/hh727w/portfolio-api/pkg/circuitbreaker"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleMessage() Message {
	return Message{
		From:    "Herman Portfolio <onboarding@resend.dev>",
		To:      []string{"owner@example.com"},
		Subject: "New message from Ada Lovelace",
		Text:    "Name: Ada Lovelace\nEmail: ada@example.com\n\nMessage:\nHello",
		ReplyTo: "ada@example.com",
	}
}

func TestResendSender_Send(t *testing.T) {
	var captured map[string]any
	var authHeader string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/emails"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	sender, err := NewResendSender("re_test", srv.URL, srv.Client())
	require.NoError(t, err)
	assert.Equal(t, ProviderResend, sender.Name())

	res, err := sender.Send(context.Background(), sampleMessage())
	require.NoError(t, err)

	assert.Equal(t, "msg_123", res.MessageID)
	assert.Equal(t, "Bearer re_test", authHeader)
	assert.Equal(t, "New message from Ada Lovelace", captured["subject"])
	assert.Contains(t, fmt.Sprint(captured["to"]), "owner@example.com")
	assert.Contains(t, fmt.Sprint(captured["reply_to"]), "ada@example.com")
}

func TestResendSender_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from field"}`))
	}))
	defer srv.Close()

	sender, err := NewResendSender("re_test", srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = sender.Send(context.Background(), sampleMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resend send")
}

func TestNewResendSender_RequiresKey(t *testing.T) {
	_, err := NewResendSender("", "", nil)
	assert.Error(t, err)
}

func TestSMTPSender_Send(t *testing.T) {
	sender, err := NewSMTPSender(SMTPOptions{Host: "smtp.example.com", Port: 587, Username: "user", Password: "pass"})
	require.NoError(t, err)
	assert.Equal(t, ProviderSMTP, sender.Name())

	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	sender.now = func() time.Time { return fixed }

	var (
		gotAddr string
		gotAuth sasl.Client
		gotFrom string
		gotTo   []string
		gotRaw  []byte
	)
	sender.sendMail = func(addr string, a sasl.Client, from string, to []string, r io.Reader) error {
		gotAddr, gotAuth, gotFrom, gotTo = addr, a, from, to
		var err error
		gotRaw, err = io.ReadAll(r)
		return err
	}

	res, err := sender.Send(context.Background(), sampleMessage())
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, "onboarding@resend.dev", gotFrom)
	assert.Equal(t, []string{"owner@example.com"}, gotTo)
	assert.NotEmpty(t, res.MessageID)
	assert.Equal(t, fixed, res.SentAt)

	mr, err := mail.CreateReader(bytes.NewReader(gotRaw))
	require.NoError(t, err)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "New message from Ada Lovelace", subject)

	replyTo, err := mr.Header.AddressList("Reply-To")
	require.NoError(t, err)
	require.Len(t, replyTo, 1)
	assert.Equal(t, "ada@example.com", replyTo[0].Address)

	part, err := mr.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(part.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Email: ada@example.com")
}

func TestSMTPSender_TransportError(t *testing.T) {
	sender, err := NewSMTPSender(SMTPOptions{Host: "smtp.example.com", Port: 25})
	require.NoError(t, err)
	sender.sendMail = func(string, sasl.Client, string, []string, io.Reader) error {
		return errors.New("connection refused")
	}

	_, err = sender.Send(context.Background(), sampleMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp send")
}

func TestNewSMTPSender_Validation(t *testing.T) {
	_, err := NewSMTPSender(SMTPOptions{Port: 25})
	assert.Error(t, err)

	_, err = NewSMTPSender(SMTPOptions{Host: "smtp.example.com"})
	assert.Error(t, err)
}

func TestLogSender_AlwaysSucceeds(t *testing.T) {
	s := NewLogSender()
	assert.Equal(t, ProviderLog, s.Name())

	_, err := s.Send(context.Background(), sampleMessage())
	assert.NoError(t, err)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Name() string { return "mock" }

func (m *mockSender) Send(ctx context.Context, msg Message) (SendResult, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(SendResult), args.Error(1)
}

func TestInstrumentedSender_PassesThrough(t *testing.T) {
	inner := new(mockSender)
	inner.On("Send", mock.Anything, sampleMessage()).Return(SendResult{MessageID: "id-1"}, nil).Once()

	s := NewInstrumentedSender(inner, nil)
	res, err := s.Send(context.Background(), sampleMessage())

	require.NoError(t, err)
	assert.Equal(t, "id-1", res.MessageID)
	assert.Equal(t, "mock", s.Name())
	inner.AssertExpectations(t)
}

func TestInstrumentedSender_BreakerOpensAndFailsFast(t *testing.T) {
	inner := new(mockSender)
	inner.On("Send", mock.Anything, mock.Anything).Return(SendResult{}, errors.New("provider down")).Times(5)

	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("email-test"))
	s := NewInstrumentedSender(inner, cb)

	for i := 0; i < 5; i++ {
		_, err := s.Send(context.Background(), sampleMessage())
		require.Error(t, err)
	}

	_, err := s.Send(context.Background(), sampleMessage())
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	inner.AssertNumberOfCalls(t, "Send", 5)
}
