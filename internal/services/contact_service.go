package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hh727w/portfolio-api/config"
	"github.com/hh727w/portfolio-api/internal/models"
	"github.com/hh727w/portfolio-api/pkg/contactform"
	"github.com/hh727w/portfolio-api/pkg/email"
	apperrors "github.com/hh727w/portfolio-api/pkg/errors"
	"github.com/hh727w/portfolio-api/pkg/logger"
	"github.com/hh727w/portfolio-api/pkg/metrics"
	"github.com/hh727w/portfolio-api/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// User-facing intake messages
const (
	MsgInvalidName    = "Please provide your name (2-100 chars)."
	MsgInvalidEmail   = "Please provide a valid email."
	MsgInvalidMessage = "Message should be between 10 and 5000 characters."
)

// Submission outcomes recorded in portfolio_contact_submissions_total
const (
	OutcomeInvalidBody = "invalid_body"
	OutcomeHoneypot    = "honeypot"
	OutcomeInvalid     = "invalid"
	OutcomeLoggedOnly  = "logged_only"
	OutcomeSent        = "sent"
	OutcomeSendFailed  = "send_failed"
	OutcomeUnexpected  = "unexpected"
)

var fieldMessages = map[string]string{
	"Name":    MsgInvalidName,
	"Email":   MsgInvalidEmail,
	"Message": MsgInvalidMessage,
}

// ContactService validates contact submissions and forwards them by email
type ContactService struct {
	sender     email.Sender
	recipients []string
	from       string
	validate   *validator.Validate
}

// NewContactService creates a new contact service instance
func NewContactService(cfg *config.Config, sender email.Sender) *ContactService {
	return &ContactService{
		sender:     sender,
		recipients: cfg.Contact.Recipients,
		from:       cfg.Contact.Sender,
		validate:   NewSubmissionValidator(),
	}
}

// NewSubmissionValidator returns a validator with the contact_email rule registered
func NewSubmissionValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return contactform.IsValidEmail(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register contact_email validation: %v", err))
	}
	return v
}

// Submit runs the intake pipeline for one submission. A honeypot hit returns
// nil without sending anything. Validation failures are returned as
// *apperrors.ValidationError; provider failures wrap apperrors.ErrUnavailable.
func (s *ContactService) Submit(ctx context.Context, raw models.RawSubmission) error {
	ctx, span := tracing.StartSpan(ctx, "contact.submit")
	defer span.End()

	submission := models.ContactSubmission{
		Name:    contactform.Sanitize(raw.Name),
		Email:   contactform.Sanitize(raw.Email),
		Message: strings.TrimSpace(raw.Message),
	}

	if contactform.IsBot(raw.Company) {
		metrics.ContactSubmissions.WithLabelValues(OutcomeHoneypot).Inc()
		span.SetAttributes(attribute.String("contact.outcome", OutcomeHoneypot))
		logger.Info("Contact submission dropped by honeypot", logger.TraceFields(ctx)...)
		return nil
	}

	if err := s.validateSubmission(&submission); err != nil {
		metrics.ContactSubmissions.WithLabelValues(OutcomeInvalid).Inc()
		span.SetAttributes(attribute.String("contact.outcome", OutcomeInvalid))
		return err
	}

	msg := BuildEmail(s.from, s.recipients, submission)

	res, err := s.sender.Send(ctx, msg)
	if err != nil {
		metrics.ContactSubmissions.WithLabelValues(OutcomeSendFailed).Inc()
		tracing.RecordError(span, err)
		logger.Error("Failed to send contact email",
			append(logger.TraceFields(ctx), zap.Error(err), zap.String("provider", s.sender.Name()))...)
		return apperrors.UnavailableError(s.sender.Name(), err)
	}

	outcome := OutcomeSent
	if s.sender.Name() == email.ProviderLog {
		outcome = OutcomeLoggedOnly
	}
	metrics.ContactSubmissions.WithLabelValues(outcome).Inc()
	span.SetAttributes(attribute.String("contact.outcome", outcome))

	logger.Info("Contact submission accepted",
		append(logger.TraceFields(ctx),
			zap.String("outcome", outcome),
			zap.String("message_id", res.MessageID))...)

	return nil
}

func (s *ContactService) validateSubmission(submission *models.ContactSubmission) error {
	err := s.validate.Struct(submission)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	// Errors come back in struct field order, so the first one wins.
	field := fieldErrs[0].StructField()
	return apperrors.NewValidationError(strings.ToLower(field), fieldMessages[field])
}

// BuildEmail renders the notification for a validated submission. Replies go
// to the visitor rather than the sending address.
func BuildEmail(from string, to []string, submission models.ContactSubmission) email.Message {
	text := fmt.Sprintf(
		"You have a new message from your portfolio contact form.\n\nName: %s\nEmail: %s\n\nMessage:\n%s",
		submission.Name, submission.Email, submission.Message,
	)

	return email.Message{
		From:    from,
		To:      to,
		Subject: "New message from " + submission.Name,
		Text:    text,
		ReplyTo: submission.Email,
	}
}
