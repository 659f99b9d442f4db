package email

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"greendrake/storefront/internal/config"
)

// Sender defines the interface for sending emails. The rawMessage parameter
// must contain the full message, headers included.
type Sender interface {
	Send(ctx context.Context, to []string, subject string, rawMessage []byte) error
}

// SMTPSender implements Sender using net/smtp.
type SMTPSender struct {
	cfg  *config.Config
	auth smtp.Auth
	addr string
}

// NewSMTPSender creates a new SMTPSender. Falls back to a logging sender when
// no SMTP host is configured so dev environments work without a mail server.
func NewSMTPSender(cfg *config.Config) Sender {
	if cfg.SmtpHost == "" {
		log.Println("SMTP host not configured, using logging email sender.")
		return &LoggingSender{cfg: cfg}
	}

	auth := smtp.PlainAuth("", cfg.SmtpUsername, cfg.SmtpPassword, cfg.SmtpHost)
	return &SMTPSender{
		cfg:  cfg,
		auth: auth,
		addr: fmt.Sprintf("%s:%d", cfg.SmtpHost, cfg.SmtpPort),
	}
}

// Send delivers the raw message over SMTP.
func (s *SMTPSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	if err := smtp.SendMail(s.addr, s.auth, s.cfg.SmtpFromAddress, to, rawMessage); err != nil {
		return fmt.Errorf("smtp send to %v failed: %w", to, err)
	}
	return nil
}

// LoggingSender logs emails instead of sending them.
type LoggingSender struct {
	cfg *config.Config
}

// Send logs the email.
func (s *LoggingSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	log.Printf("[email] To: %v Subject: %q (%d bytes, not sent)", to, subject, len(rawMessage))
	return nil
}
