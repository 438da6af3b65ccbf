package notifier

import (
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"
)

// Mailer sends a single email. Split out so dispatcher tests can swap in
// a recording fake.
type Mailer interface {
	Send(to, subject, plainBody, htmlBody string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPMailer composes and sends mail with mailyak.
type SMTPMailer struct {
	addr     string
	auth     smtp.Auth
	from     string
	fromName string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPMailer{
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth:     auth,
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

func (m *SMTPMailer) Send(to, subject, plainBody, htmlBody string) error {
	mail := mailyak.New(m.addr, m.auth)
	mail.From(m.from)
	mail.FromName(m.fromName)
	mail.To(to)
	mail.Subject(subject)
	mail.Plain().Set(plainBody)
	if htmlBody != "" {
		mail.HTML().Set(htmlBody)
	}
	return mail.Send()
}
