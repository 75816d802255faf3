package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends account mail.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

// SMTP delivers mail through an SMTP relay. With an empty host the message is
// only logged, which keeps local setups working without a relay.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	dial func(*gomail.Message) error
}

// NewSMTP builds an SMTP mailer.
func NewSMTP(host string, port int, username, password, from string) *SMTP {
	m := &SMTP{Host: host, Port: port, Username: username, Password: password, From: from}
	m.dial = func(msg *gomail.Message) error {
		return gomail.NewDialer(m.Host, m.Port, m.Username, m.Password).DialAndSend(msg)
	}
	return m
}

// SendPasswordReset mails the reset link to the address.
func (m *SMTP) SendPasswordReset(ctx context.Context, to, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.Host == "" {
		zap.L().Info("smtp not configured, password reset link not sent",
			zap.String("to", to), zap.String("link", link))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset your Et.Shoes password")
	msg.SetBody("text/plain", fmt.Sprintf("Use the link below to choose a new password:\n\n%s\n\nIf you did not ask for this, ignore this email.", link))
	msg.AddAlternative("text/html", fmt.Sprintf(`<p>Use the link below to choose a new password:</p><p><a href="%s">Reset password</a></p><p>If you did not ask for this, ignore this email.</p>`, link))

	if err := m.dial(msg); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}
