package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/lead-relay/internal/config"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (m *mailer) SendEmail(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

// OTPNotifier delivers verification codes by email.
type OTPNotifier struct {
	Mailer Mailer
}

func (n OTPNotifier) SendOTP(ctx context.Context, to, displayName, code string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.Mailer.SendEmail(to, "Your verification code", otpBody(displayName, code, ttl))
}

func otpBody(displayName, code string, ttl time.Duration) string {
	greeting := "Hello,"
	if name := strings.TrimSpace(displayName); name != "" {
		greeting = fmt.Sprintf("Hello %s,", name)
	}
	return fmt.Sprintf("%s\r\n\r\nYour verification code is %s.\r\nIt expires in %d minutes and can be used once.\r\n\r\nIf you did not request this code you can ignore this email.\r\n",
		greeting, code, int(ttl/time.Minute))
}
