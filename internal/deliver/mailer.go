// Package deliver holds the thin outbound collaborators: the Gmail SMTP
// mailer and the Telegram sender. No pipeline logic lives here.
package deliver

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

const (
	smtpHost = "smtp.gmail.com"
	smtpPort = 465
)

// Mailer sends the rendered digest over Gmail SMTP with an app password.
type Mailer struct {
	user     string
	password string
}

func NewMailer(user, password string) *Mailer {
	return &Mailer{user: user, password: password}
}

// Configured reports whether credentials are present. Callers skip sending
// (with a warning) when they are not.
func (m *Mailer) Configured() bool {
	return m.user != "" && m.password != ""
}

// Send delivers the HTML document to the given recipients.
func (m *Mailer) Send(subject, htmlBody string, recipients []string) error {
	if !m.Configured() {
		return fmt.Errorf("mailer not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.user)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(smtpHost, smtpPort, m.user, m.password)
	dialer.SSL = true

	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}
