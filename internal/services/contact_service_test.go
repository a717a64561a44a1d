package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hh727w/portfolio-api/internal/models"
	"github.com/hh727w/portfolio-api/internal/services"
	"github.com/hh727w/portfolio-api/pkg/email"
	apperrors "github.com/hh727w/portfolio-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validSubmission() models.RawSubmission {
	return models.RawSubmission{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Message: "Hello, I'd like to collaborate!",
		Company: "",
	}
}

func TestContactService_Submit_Success(t *testing.T) {
	sender := NewMockSender(email.ProviderResend)
	service := services.NewContactService(testConfig(), sender)
	ctx := context.Background()

	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg email.Message) bool {
		return msg.ReplyTo == "ada@example.com" &&
			strings.Contains(msg.Subject, "Ada Lovelace") &&
			msg.From == testConfig().Contact.Sender &&
			assert.ObjectsAreEqual([]string{"owner@example.com", "backup@example.com"}, msg.To)
	})).Return(email.SendResult{MessageID: "msg_1", SentAt: time.Now()}, nil).Once()

	err := service.Submit(ctx, validSubmission())
	assert.NoError(t, err)

	sender.AssertExpectations(t)
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestContactService_Submit_ProviderFailure(t *testing.T) {
	sender := NewMockSender(email.ProviderResend)
	service := services.NewContactService(testConfig(), sender)

	sender.On("Send", mock.Anything, mock.Anything).
		Return(email.SendResult{}, errors.New("resend: 500 internal")).Once()

	err := service.Submit(context.Background(), validSubmission())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)

	_, isValidation := apperrors.AsValidationError(err)
	assert.False(t, isValidation)
	sender.AssertExpectations(t)
}

func TestContactService_Submit_Honeypot(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawSubmission
	}{
		{"valid fields", models.RawSubmission{Name: "Ada", Email: "ada@example.com", Message: "long enough message", Company: "ACME"}},
		{"invalid fields", models.RawSubmission{Name: "", Email: "nope", Message: "", Company: "x"}},
		{"padded honeypot", models.RawSubmission{Company: "  spam  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := NewMockSender(email.ProviderResend)
			service := services.NewContactService(testConfig(), sender)

			err := service.Submit(context.Background(), tt.raw)
			assert.NoError(t, err)
			sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestContactService_Submit_WhitespaceHoneypotIsIgnored(t *testing.T) {
	sender := NewMockSender(email.ProviderResend)
	service := services.NewContactService(testConfig(), sender)

	sender.On("Send", mock.Anything, mock.Anything).Return(email.SendResult{}, nil).Once()

	raw := validSubmission()
	raw.Company = " \t "
	assert.NoError(t, service.Submit(context.Background(), raw))
	sender.AssertExpectations(t)
}

func TestContactService_Submit_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.RawSubmission)
		field   string
		message string
	}{
		{"name too short", func(r *models.RawSubmission) { r.Name = "A" }, "name", services.MsgInvalidName},
		{"name too long", func(r *models.RawSubmission) { r.Name = strings.Repeat("n", 101) }, "name", services.MsgInvalidName},
		{"name blank after trim", func(r *models.RawSubmission) { r.Name = "  \r\n " }, "name", services.MsgInvalidName},
		{"email missing domain dot", func(r *models.RawSubmission) { r.Email = "a@b" }, "email", services.MsgInvalidEmail},
		{"email with space", func(r *models.RawSubmission) { r.Email = "a b@c.com" }, "email", services.MsgInvalidEmail},
		{"email missing local part", func(r *models.RawSubmission) { r.Email = "@c.com" }, "email", services.MsgInvalidEmail},
		{"email empty", func(r *models.RawSubmission) { r.Email = "" }, "email", services.MsgInvalidEmail},
		{"message too short", func(r *models.RawSubmission) { r.Message = strings.Repeat("m", 9) }, "message", services.MsgInvalidMessage},
		{"message too long", func(r *models.RawSubmission) { r.Message = strings.Repeat("m", 5001) }, "message", services.MsgInvalidMessage},
		{"message short after trim", func(r *models.RawSubmission) { r.Message = "   short   " }, "message", services.MsgInvalidMessage},
		{"name wins over email and message", func(r *models.RawSubmission) {
			r.Name = "A"
			r.Email = "bad"
			r.Message = "short"
		}, "name", services.MsgInvalidName},
		{"email wins over message", func(r *models.RawSubmission) {
			r.Email = "bad"
			r.Message = "short"
		}, "email", services.MsgInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := NewMockSender(email.ProviderResend)
			service := services.NewContactService(testConfig(), sender)

			raw := validSubmission()
			tt.mutate(&raw)

			err := service.Submit(context.Background(), raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

			ve, ok := apperrors.AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Message)
			sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestContactService_Submit_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.RawSubmission)
	}{
		{"name length 2", func(r *models.RawSubmission) { r.Name = "Al" }},
		{"name length 100", func(r *models.RawSubmission) { r.Name = strings.Repeat("n", 100) }},
		{"name length 100 multibyte", func(r *models.RawSubmission) { r.Name = strings.Repeat("é", 100) }},
		{"message length 10", func(r *models.RawSubmission) { r.Message = strings.Repeat("m", 10) }},
		{"message length 5000", func(r *models.RawSubmission) { r.Message = strings.Repeat("m", 5000) }},
		{"minimal email", func(r *models.RawSubmission) { r.Email = "a@b.c" }},
		{"name padded to length 2", func(r *models.RawSubmission) { r.Name = "  Al  " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := NewMockSender(email.ProviderResend)
			service := services.NewContactService(testConfig(), sender)
			sender.On("Send", mock.Anything, mock.Anything).Return(email.SendResult{}, nil).Once()

			raw := validSubmission()
			tt.mutate(&raw)

			assert.NoError(t, service.Submit(context.Background(), raw))
			sender.AssertExpectations(t)
		})
	}
}

func TestContactService_Submit_StripsHeaderInjection(t *testing.T) {
	sender := NewMockSender(email.ProviderResend)
	service := services.NewContactService(testConfig(), sender)

	var sent email.Message
	sender.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(email.Message) }).
		Return(email.SendResult{}, nil).Once()

	raw := validSubmission()
	raw.Name = "Mallory\r\nBcc: evil@x.com"
	raw.Email = "mallory@example.com\n"

	require.NoError(t, service.Submit(context.Background(), raw))

	assert.NotContains(t, sent.Subject, "\r")
	assert.NotContains(t, sent.Subject, "\n")
	assert.Equal(t, "New message from Mallory  Bcc: evil@x.com", sent.Subject)
	assert.Equal(t, "mallory@example.com", sent.ReplyTo)
	assert.Contains(t, sent.Text, "Name: Mallory  Bcc: evil@x.com\n")
}

func TestContactService_Submit_LogOnlyProvider(t *testing.T) {
	// The log sender is what the server wires in when no provider key is set.
	service := services.NewContactService(testConfig(), email.NewLogSender())

	assert.NoError(t, service.Submit(context.Background(), validSubmission()))
}

func TestBuildEmail(t *testing.T) {
	msg := services.BuildEmail("From <from@example.com>", []string{"to@example.com"}, models.ContactSubmission{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Message: "Hello, I'd like to collaborate!",
	})

	assert.Equal(t, "From <from@example.com>", msg.From)
	assert.Equal(t, []string{"to@example.com"}, msg.To)
	assert.Equal(t, "New message from Ada Lovelace", msg.Subject)
	assert.Equal(t, "ada@example.com", msg.ReplyTo)
	assert.Equal(t,
		"You have a new message from your portfolio contact form.\n\nName: Ada Lovelace\nEmail: ada@example.com\n\nMessage:\nHello, I'd like to collaborate!",
		msg.Text)
}
