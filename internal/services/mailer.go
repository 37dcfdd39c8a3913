package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/config"
)

// Mailer delivers transactional email.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}

// NewMailer returns an SMTP mailer when SMTP is configured and a logging
// mailer otherwise.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.MailEnabled() {
		return &SMTPMailer{
			host:     cfg.SMTPHost,
			port:     cfg.SMTPPort,
			username: cfg.SMTPUser,
			password: cfg.SMTPPassword,
			from:     cfg.MailFrom,
			ttl:      cfg.ResetTokenTTL,
		}
	}
	return LogMailer{}
}

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <p>Hi {{.Name}},</p>
  <p>We received a request to reset your password. The link below is valid for {{.TTL}}.</p>
  <p><a href="{{.URL}}">Reset your password</a></p>
  <p>If you did not ask for this, you can ignore this email.</p>
</body>
</html>
`))

type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	ttl      time.Duration
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	body, err := renderResetEmail(name, resetURL, m.ttl)
	if err != nil {
		return err
	}

	msg := buildMessage(m.from, to, "Reset your password", body)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- smtp.SendMail(net.JoinHostPort(m.host, m.port), auth, m.from, []string{to}, msg)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func renderResetEmail(name, resetURL string, ttl time.Duration) (string, error) {
	var body bytes.Buffer
	data := struct{ Name, URL, TTL string }{name, resetURL, formatTTL(ttl)}
	if err := resetTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to render reset email: %w", err)
	}
	return body.String(), nil
}

// formatTTL renders whole hours or minutes in words and falls back to the
// duration string otherwise.
func formatTTL(d time.Duration) string {
	plural := func(n int64, unit string) string {
		if n == 1 {
			return "1 " + unit
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	switch {
	case d <= 0:
		return "a limited time"
	case d%time.Hour == 0:
		return plural(int64(d/time.Hour), "hour")
	case d%time.Minute == 0:
		return plural(int64(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func buildMessage(from, to, subject, html string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}

// LogMailer records that a reset email would have been sent. Used when no
// SMTP server is configured. The link itself is never logged.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	slog.Info("password reset email skipped, smtp disabled", "to", to)
	return nil
}
