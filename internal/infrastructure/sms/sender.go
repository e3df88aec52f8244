package sms

import (
	"context"

	"go.uber.org/zap"

	"github.com/pro324test/store-sub001/pkg/logger"
)

// LogSender writes outbound messages to the structured log instead of a real
// SMS gateway. The production gateway lives outside this core; this stand-in
// keeps the delivery seam visible and testable.
type LogSender struct{}

// NewLogSender creates a new log-backed sender
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send logs the message destination. The body is not logged: one-time codes
// must never reach the log stream.
func (s *LogSender) Send(ctx context.Context, phone, message string) error {
	logger.Info(ctx, "SMS dispatched",
		zap.String("phone", phone),
		zap.Int("length", len(message)),
	)
	return nil
}
