package email

import (
	"context"
	"time"

	"github.com/hh727w/portfolio-api/pkg/logger"
	"go.uber.org/zap"
)

// LogSender is used when no provider is configured. It records the message in
// the service log and reports success so the site keeps working without secrets.
type LogSender struct{}

// NewLogSender returns a log-only sender.
func NewLogSender() *LogSender {
	return &LogSender{}
}

func (LogSender) Name() string { return ProviderLog }

func (LogSender) Send(ctx context.Context, msg Message) (SendResult, error) {
	logger.Warn("No email provider configured; skipping email send",
		append(logger.TraceFields(ctx),
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.String("reply_to", msg.ReplyTo),
			zap.String("text", msg.Text),
		)...)
	return SendResult{SentAt: time.Now()}, nil
}
