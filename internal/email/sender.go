package email

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/config"
)

// Sender defines the interface for sending emails. The rawMessage parameter
// must contain the complete message including headers.
type Sender interface {
	Send(ctx context.Context, to []string, subject string, rawMessage []byte) error
}

// SMTPSender implements Sender using net/smtp.
type SMTPSender struct {
	cfg  *config.Config
	auth smtp.Auth
	addr string
}

// NewSMTPSender creates a new SMTPSender. When no SMTP host is configured it
// falls back to a logging sender so development environments work without a
// mail relay.
func NewSMTPSender(cfg *config.Config) Sender {
	if cfg.SmtpHost == "" {
		log.Println("SMTP host not configured, using logging email sender.")
		return &LoggingSender{cfg: cfg}
	}

	auth := smtp.PlainAuth(
		"", // identity
		cfg.SmtpUsername,
		cfg.SmtpPassword,
		cfg.SmtpHost,
	)
	addr := fmt.Sprintf("%s:%d", cfg.SmtpHost, cfg.SmtpPort)

	return &SMTPSender{
		cfg:  cfg,
		auth: auth,
		addr: addr,
	}
}

// Send sends an email using SMTP.
func (s *SMTPSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	err := smtp.SendMail(s.addr, s.auth, s.cfg.SmtpFromAddress, to, rawMessage)
	if err != nil {
		log.Printf("Failed to send email via SMTP to %v: %v", to, err)
		return fmt.Errorf("smtp error: %w", err)
	}
	log.Printf("Email sent successfully via SMTP to %v (Subject: %s)", to, subject)
	return nil
}

// LoggingSender logs email details instead of sending them.
type LoggingSender struct {
	cfg *config.Config
}

// Send logs the email instead of delivering it.
func (s *LoggingSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	log.Printf("--- Sending Email (Logged) ---")
	log.Printf("To: %v", to)
	log.Printf("Configured From: %s", s.cfg.SmtpFromAddress)
	log.Printf("Subject: %s", subject)
	log.Println("--- Raw Message ---")
	log.Println(string(rawMessage))
	log.Println("--- End Email ---")
	return nil
}
