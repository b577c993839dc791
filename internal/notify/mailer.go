package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	applog "jadimart/internal/log"
)

// Mailer attempts delivery of a single message. Callers rely on the error
// only for logging; delivery is best-effort with no confirmation tracking.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer delivers via a plain-auth SMTP relay.
type SMTPMailer struct {
	Addr     string // host:port
	Username string
	Password string
	From     string
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	host := m.Addr
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, host)
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		m.From, to, subject, htmlBody)
	return smtp.SendMail(m.Addr, auth, m.From, []string{to}, []byte(msg))
}

// LogMailer writes the would-be message to the app log instead of delivering
// it. Default when no SMTP relay is configured.
type LogMailer struct{}

func (LogMailer) Send(to, subject, htmlBody string) error {
	applog.Info(nil, "mail.mock", map[string]any{
		"to":      to,
		"subject": subject,
		"bytes":   len(htmlBody),
	})
	return nil
}
