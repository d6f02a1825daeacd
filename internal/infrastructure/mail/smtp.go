package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig holds the transport settings for the SMTP dispatcher.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// Secure forces TLS; otherwise STARTTLS is used opportunistically.
	Secure bool
}

type smtpDispatcher struct {
	cfg SMTPConfig
}

// NewSMTPDispatcher creates a Dispatcher that delivers over SMTP. Messages are
// sent from the configured transport user.
func NewSMTPDispatcher(cfg SMTPConfig) Dispatcher {
	return &smtpDispatcher{cfg: cfg}
}

func (d *smtpDispatcher) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.From(d.cfg.Username); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTML)

	policy := gomail.TLSOpportunistic
	if d.cfg.Secure {
		policy = gomail.TLSMandatory
	}

	client, err := gomail.NewClient(d.cfg.Host,
		gomail.WithPort(d.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(d.cfg.Username),
		gomail.WithPassword(d.cfg.Password),
		gomail.WithTLSPortPolicy(policy),
	)
	if err != nil {
		return fmt.Errorf("mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
