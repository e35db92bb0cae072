package infra

import (
	"context"
	"fmt"
	"net/smtp"

	"eventdesk/internal/config"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"
)

// Mailer sends HTML emails with an optional PDF attachment through the
// configured SMTP relay. Delivery goes through a Breaker so a dead relay
// fails fast instead of stalling every send request.
type Mailer struct {
	from    string
	addr    string
	auth    smtp.Auth
	breaker *Breaker
	send    func(e *email.Email) error
}

func NewMailer(cfg *config.Config) *Mailer {
	m := &Mailer{
		from:    cfg.SMTPFrom,
		addr:    fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		breaker: NewBreaker(DefaultBreakerConfig()),
	}
	if cfg.SMTPUser != "" {
		m.auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	m.send = func(e *email.Email) error { return e.Send(m.addr, m.auth) }
	return m
}

// Send delivers one message to a single recipient. attachmentPath may be empty.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody, attachmentPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(htmlBody)
	if attachmentPath != "" {
		if _, err := e.AttachFile(attachmentPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	err := m.breaker.Do(func() error { return m.send(e) })
	if err != nil {
		log.Warn().Err(err).Str("to", to).Str("breaker", m.breaker.State().String()).Msg("mail delivery failed")
		return fmt.Errorf("mailer: %w", err)
	}
	return nil
}
