package email

import (
	"fmt"
	"net/smtp"

	"github.com/campuslink/campuslink/internal/config"
)

// Sender delivers plain text email over SMTP.
type Sender struct {
	host     string
	port     string
	from     string
	password string
}

func NewSender(cfg *config.Config) *Sender {
	return &Sender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPSender,
		password: cfg.SMTPPassword,
	}
}

// Send sends a plain text email. Callers decide whether a failure matters;
// verification emails are fire-and-forget.
func (s *Sender) Send(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	address := s.host + ":" + s.port

	if err := smtp.SendMail(address, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
