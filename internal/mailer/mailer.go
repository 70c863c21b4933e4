// Package mailer delivers transactional email. The Sender interface decouples
// callers from transport so tests and local development run without an SMTP
// relay.
package mailer

//go:generate mockgen -source=mailer.go -destination=mocks/mocks.go -package=mocks Sender

import (
	"context"
	"log/slog"
)

// Message is one outbound email. HTML body only; the templates in this package
// produce self-contained markup.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a message to one recipient.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them. Default for
// local development when no SMTP relay is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender constructs a log-only sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "email not sent (log sender)",
		"to", msg.To,
		"subject", msg.Subject,
		"body_bytes", len(msg.HTML),
	)
	return nil
}
