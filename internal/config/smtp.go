package config

import "os"

// SMTPConfig carries the settings for outbound mail: one-time codes
// for email verification and password reset, plus review-decision
// notifications.  When Host is empty, mail sending is disabled and the
// sender logs the message instead, which keeps local development free
// of an SMTP dependency.
type SMTPConfig struct {
    Host     string
    Port     int
    Username string
    Password string
    From     string
}

// LoadSMTPConfig reads SMTP_* environment variables.  Only SMTP_HOST is
// required for mail to be enabled; the port defaults to 587.
func LoadSMTPConfig() SMTPConfig {
    return SMTPConfig{
        Host:     os.Getenv("SMTP_HOST"),
        Port:     envInt("SMTP_PORT", 587),
        Username: os.Getenv("SMTP_USERNAME"),
        Password: os.Getenv("SMTP_PASSWORD"),
        From:     envStr("SMTP_FROM", "no-reply@examportal.local"),
    }
}

// Enabled reports whether outbound mail is configured.
func (c SMTPConfig) Enabled() bool { return c.Host != "" }
