package email

import (
	"context"
	"time"

	"github.com/hh727w/portfolio-api/pkg/circuitbreaker"
	"github.com/hh727w/portfolio-api/pkg/logger"
	"github.com/hh727w/portfolio-api/pkg/metrics"
	"github.com/hh727w/portfolio-api/pkg/tracing"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// InstrumentedSender wraps a provider with tracing, metrics and a circuit
// breaker. While the breaker is open calls fail immediately.
type InstrumentedSender struct {
	next    Sender
	breaker *gobreaker.CircuitBreaker
}

// NewInstrumentedSender wraps next. A nil breaker disables fail-fast.
func NewInstrumentedSender(next Sender, breaker *gobreaker.CircuitBreaker) *InstrumentedSender {
	return &InstrumentedSender{next: next, breaker: breaker}
}

func (s *InstrumentedSender) Name() string { return s.next.Name() }

func (s *InstrumentedSender) Send(ctx context.Context, msg Message) (SendResult, error) {
	ctx, span := tracing.StartSpan(ctx, "email.send",
		attribute.String("email.provider", s.next.Name()),
		attribute.Int("email.recipients", len(msg.To)),
	)
	defer span.End()

	start := time.Now()
	send := func() (SendResult, error) { return s.next.Send(ctx, msg) }

	var (
		res SendResult
		err error
	)
	if s.breaker != nil {
		res, err = circuitbreaker.Execute(s.breaker, send)
	} else {
		res, err = send()
	}

	duration := metrics.MeasureDuration(start)
	status := "success"
	if err != nil {
		status = "error"
		tracing.RecordError(span, err)
	}
	metrics.EmailProviderRequestDuration.WithLabelValues(s.next.Name(), status).Observe(duration)
	metrics.EmailProviderRequestTotal.WithLabelValues(s.next.Name(), status).Inc()

	fields := []zap.Field{zap.String("message_id", res.MessageID)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.LogAPICall(s.next.Name(), "send_email", status, duration, fields...)

	return res, err
}
