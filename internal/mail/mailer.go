// Package mail delivers the magic-link emails. The service layer only sees
// the Sender interface; tests and development use the log implementation.
package mail

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"synthesized/web/internal/config"
)

// Sender delivers a single plain-text message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpSender struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPSender creates a Sender backed by a plain SMTP relay.
func NewSMTPSender(cfg config.SMTPConfig) Sender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &smtpSender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
	}
}

func (s *smtpSender) Send(_ context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.from, to, subject, body)
	return smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg))
}

type logSender struct{}

// NewLogSender creates a Sender that writes messages to the process log
// instead of delivering them. Used in development so sign-in links show up
// in the server output.
func NewLogSender() Sender {
	return logSender{}
}

func (logSender) Send(_ context.Context, to, subject, body string) error {
	log.Printf("mail to %s: %s\n%s", to, subject, body)
	return nil
}
