package utils

import (
	"gopkg.in/gomail.v2"

	"github.com/medbook/medbook-server/config"
)

// SendEmail sends an HTML mail through the configured SMTP relay.
func SendEmail(cfg config.SMTPConfig, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.User)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)

	return d.DialAndSend(m)
}
