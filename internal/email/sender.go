// Package email delivers transactional mail: one-time codes for email
// verification and password reset, and registration review decisions.
// Delivery is always best-effort; callers log failures and carry on.
package email

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	gomail "gopkg.in/gomail.v2"

	"github.com/iliyamo/exam-registration/internal/config"
)

// Sender sends mail over SMTP.  When SMTP is not configured the sender
// logs the message body instead, which keeps OTP flows usable in local
// development without a mail server.
type Sender struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

// NewSender builds a Sender from SMTP configuration.
func NewSender(cfg config.SMTPConfig) *Sender {
	s := &Sender{cfg: cfg}
	if cfg.Enabled() {
		s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return s
}

// Send delivers a plain-text message to a single recipient.
func (s *Sender) Send(to, subject, body string) error {
	if s.dialer == nil {
		log.Info().Str("to", to).Str("subject", subject).Msg("smtp disabled, mail logged instead")
		log.Debug().Str("body", body).Msg("mail body")
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

// SendOTP mails a one-time code together with its validity window.
func (s *Sender) SendOTP(to, code string, ttl time.Duration) error {
	body := fmt.Sprintf(
		"Your verification code is %s.\n\nIt expires in %d minutes. If you did not request this code, ignore this message.",
		code, int(ttl.Minutes()))
	return s.Send(to, "Your verification code", body)
}

// SendDecision mails the outcome of a registration review.
func (s *Sender) SendDecision(to, examName, status, hallTicketURL, reason string) error {
	var body string
	switch status {
	case "APPROVED":
		body = fmt.Sprintf(
			"Your registration for %s has been approved.\n\nDownload your hall ticket: %s",
			examName, hallTicketURL)
	default:
		body = fmt.Sprintf(
			"Your registration for %s has been rejected.\n\nReason: %s",
			examName, reason)
	}
	return s.Send(to, fmt.Sprintf("Registration update: %s", examName), body)
}
