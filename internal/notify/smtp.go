package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"pharmadesk/m/domain"
	"pharmadesk/m/internal/config"
)

// SMTPTransport sends messages through an authenticated SMTP relay.
type SMTPTransport struct {
	cfg  config.MailConfig
	from string
}

func NewSMTPTransport(cfg config.MailConfig) *SMTPTransport {
	from := cfg.Username
	if from == "" {
		from = cfg.Operator
	}
	return &SMTPTransport{cfg: cfg, from: from}
}

func (t *SMTPTransport) Deliver(ctx context.Context, msg Message) error {
	m, err := t.build(msg)
	if err != nil {
		return err
	}

	opts := []mail.Option{mail.WithPort(t.cfg.Port)}
	if t.cfg.UseSSL {
		opts = append(opts, mail.WithSSL())
	}
	if t.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(t.cfg.Username),
			mail.WithPassword(t.cfg.Password),
		)
	}
	client, err := mail.NewClient(t.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("configure smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send via %s: %w", t.cfg.Host, err)
	}
	return nil
}

func (t *SMTPTransport) build(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(t.from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", t.from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid operator address %q: %w", msg.To, err)
	}
	if err := m.ReplyTo(msg.ReplyTo); err != nil {
		return nil, &domain.ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}
