package mailer

import (
	"fmt"
	"sync"

	gomail "gopkg.in/gomail.v2"

	"github.com/nutratech/prf-api/pkg/config"
)

// Sender delivers a single HTML message to one recipient.
type Sender interface {
	Send(to, subject, htmlBody string) error
	Verify() error
}

// SMTPMailer sends mail over a plain SMTP dialer. The dialer is injected
// configuration, not a shared mutable transport: each Send performs its own
// dial so a dead connection never poisons later sends.
type SMTPMailer struct {
	cfg config.SMTPConfig

	mu     sync.Mutex
	dialer *gomail.Dialer
}

// NewSMTP constructs a mailer from SMTP configuration.
func NewSMTP(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) dial() (gomail.SendCloser, error) {
	m.mu.Lock()
	if m.dialer == nil {
		m.dialer = gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	}
	d := m.dialer
	m.mu.Unlock()

	return d.Dial()
}

// Verify performs a lightweight SMTP handshake without sending anything.
func (m *SMTPMailer) Verify() error {
	closer, err := m.dial()
	if err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	return closer.Close()
}

// Send delivers one HTML message. The connection is verified implicitly by
// the dial; a handshake failure short-circuits this send only.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if to == "" {
		return fmt.Errorf("empty recipient address")
	}

	closer, err := m.dial()
	if err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer closer.Close()

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.FromAddress, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := gomail.Send(closer, msg); err != nil {
		return fmt.Errorf("send to %s: %w", to, err)
	}
	return nil
}
