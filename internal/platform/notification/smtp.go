package notification

import (
	"context"

	"github.com/go-gomail/gomail"
	"github.com/rs/zerolog"
)

// SMTPSender delivers HTML email through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *SMTPSender) SendEmail(ctx context.Context, msg Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.dialer.DialAndSend(s.message(msg))
}

func (s *SMTPSender) message(msg Email) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.ID != "" {
		m.SetHeader("Message-ID", "<"+msg.ID+"@medbook>")
	}
	m.SetBody("text/html", msg.HTML)
	return m
}

// LogSender stands in for SMTP in development: it logs instead of sending.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendEmail(_ context.Context, msg Email) error {
	s.logger.Info().
		Str("message_id", msg.ID).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("html_bytes", len(msg.HTML)).
		Msg("email not sent: SMTP disabled")
	return nil
}
