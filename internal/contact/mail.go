package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// MailConfig holds the SMTP settings for MailSubmitter.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	To       string
	Timeout  time.Duration
}

// Enabled reports whether enough is configured to send mail.
func (c MailConfig) Enabled() bool {
	return c.Host != "" && c.Username != "" && c.Password != "" && c.To != ""
}

// MailSubmitter emails submissions to the site owner.
type MailSubmitter struct {
	cfg MailConfig
}

// NewMailSubmitter applies defaults to cfg.
func NewMailSubmitter(cfg MailConfig) *MailSubmitter {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &MailSubmitter{cfg: cfg}
}

// Compose builds the outgoing message for s.
func (m *MailSubmitter) Compose(s Submission) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.Username); err != nil {
		return nil, fmt.Errorf("contact: from address: %w", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return nil, fmt.Errorf("contact: to address: %w", err)
	}
	if err := msg.ReplyTo(s.Email); err != nil {
		return nil, fmt.Errorf("contact: reply-to address: %w", err)
	}
	subject := "Portfolio Contact: " + s.Name
	if s.Subject != "" {
		subject += " - " + s.Subject
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body(s))
	return msg, nil
}

func body(s Submission) string {
	return fmt.Sprintf(`New contact form submission from your portfolio:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Reference: %s
`, s.Name, s.Email, s.Subject, s.Message, s.ID)
}

func (m *MailSubmitter) Submit(ctx context.Context, s Submission) error {
	msg, err := m.Compose(s)
	if err != nil {
		return err
	}
	c, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithTimeout(m.cfg.Timeout),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("contact: mail client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("contact: send mail: %w", err)
	}
	return nil
}
