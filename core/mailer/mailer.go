package mailer

import (
	"context"
	"fmt"

	"party-invites/core/config"
	"party-invites/core/logger"

	"github.com/wneessen/go-mail"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

// New returns an SMTP mailer, or a mailer that only logs when no SMTP host is configured.
func New(cfg config.SMTPConfig) Mailer {
	if cfg.Host == "" {
		logger.Warn("Mailer:New:NoSMTPHost", "fallback", "log")
		return logMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) client() (*mail.Client, error) {
	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	if m.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	return mail.NewClient(m.cfg.Host, opts...)
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	email, err := buildMessage(m.cfg.From, msg)
	if err != nil {
		return err
	}

	client, err := m.client()
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, email); err != nil {
		return fmt.Errorf("send to %s: %w", msg.To, err)
	}
	return nil
}

func buildMessage(from string, msg Message) (*mail.Msg, error) {
	email := mail.NewMsg()
	if err := email.From(from); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", from, err)
	}
	if err := email.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	email.Subject(msg.Subject)
	email.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		email.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	return email, nil
}

type logMailer struct{}

func (logMailer) Send(_ context.Context, msg Message) error {
	logger.Info("Mailer:Send:Logged", "to", msg.To, "subject", msg.Subject)
	return nil
}
