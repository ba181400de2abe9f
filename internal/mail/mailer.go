// Package mail wraps the SMTP collaborator used for password-reset
// links. Handlers depend on the Mailer interface so tests can swap in
// a fake without a mail server.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/yourorg/loadsense/internal/config"
)

// Mailer dispatches a reset link for the given token.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, token string) error
}

// SMTPMailer sends through a real SMTP server.
type SMTPMailer struct {
	host      string
	port      int
	user      string
	pass      string
	from      string
	publicURL string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		user:      cfg.SMTPUser,
		pass:      cfg.SMTPPass,
		from:      cfg.MailFrom,
		publicURL: cfg.PublicURL,
	}
}

// SendPasswordReset mails the reset link. The context bounds the whole
// dial-and-send so a stuck SMTP server cannot hold the request open.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, token string) error {
	opts := []gomail.Option{
		gomail.WithPort(m.port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if m.user != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.user),
			gomail.WithPassword(m.pass),
		)
	}
	client, err := gomail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("mail client: %w", err)
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject("Password reset")
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"A password reset was requested for this account.\n\n"+
			"Open %s/reset_password/%s to choose a new password.\n\n"+
			"The link expires in one hour. If you did not request this, ignore this mail.\n",
		m.publicURL, token))

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail send: %w", err)
	}
	return nil
}
