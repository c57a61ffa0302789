package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/restockr/auth-service/internal/model"
	"github.com/restockr/auth-service/pkg/circuit"
	ctxutil "github.com/restockr/auth-service/pkg/context"
	"github.com/restockr/auth-service/pkg/logger"
)

// Config holds SMTP delivery settings.
type Config struct {
	Host          string
	Port          int
	Username      string
	Password      string
	FromEmail     string
	FromName      string
	ActivationURL string // frontend page that consumes activation links
	DialTimeout   time.Duration
}

// Mailer delivers account lifecycle emails over SMTP. Sends go through a
// circuit breaker; while the breaker is open they fail fast instead of
// dialing a dead server.
type Mailer struct {
	cfg     Config
	breaker *circuit.Breaker
}

func NewMailer(cfg Config, breaker *circuit.Breaker) *Mailer {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	return &Mailer{cfg: cfg, breaker: breaker}
}

// IsConfigured reports whether SMTP credentials are present. Without them
// every send is skipped with a warning.
func (m *Mailer) IsConfigured() bool {
	return m.cfg.Username != "" && m.cfg.Password != ""
}

// SendActivationEmail delivers the activation token to a freshly registered
// account.
func (m *Mailer) SendActivationEmail(ctx context.Context, user *model.User, token string) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "SendActivationEmail")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "notifier")

	html, err := render(activationTmpl, activationEmailData{
		FullName:      user.FullName,
		Email:         user.Email,
		Role:          string(user.Role),
		Token:         token,
		ActivationURL: m.cfg.ActivationURL,
		FromName:      m.cfg.FromName,
	})
	if err != nil {
		return fmt.Errorf("failed to render activation email: %w", err)
	}

	return m.send(ctx, user.Email, "Activate your ReStockr account", html)
}

// SendWelcomeEmail greets an account that has just been activated.
func (m *Mailer) SendWelcomeEmail(ctx context.Context, user *model.User) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "SendWelcomeEmail")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "notifier")

	html, err := render(welcomeTmpl, welcomeEmailData{
		FullName: user.FullName,
		Role:     string(user.Role),
		City:     user.City,
		FromName: m.cfg.FromName,
	})
	if err != nil {
		return fmt.Errorf("failed to render welcome email: %w", err)
	}

	return m.send(ctx, user.Email, "Welcome to ReStockr!", html)
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	if !m.IsConfigured() {
		logger.WarnWithContext(ctx, "SMTP not configured, skipping email").
			String("to", to).
			String("subject", subject).
			Log()
		return nil
	}

	msg := m.buildMessage(to, subject, htmlBody)

	start := time.Now()
	err := m.breaker.Execute(func() error {
		return m.push(ctx, to, msg)
	})
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to deliver email").
			String("to", to).
			String("subject", subject).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Email delivered").
		String("to", to).
		String("subject", subject).
		Duration(duration).
		Log()

	return nil
}

func (m *Mailer) buildMessage(to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// push performs one SMTP transaction: dial, STARTTLS when offered,
// authenticate, send.
func (m *Mailer) push(ctx context.Context, to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	dialer := &net.Dialer{Timeout: m.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("failed to start tls: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}

	if err := client.Mail(m.cfg.FromEmail); err != nil {
		return fmt.Errorf("smtp mail command failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt command failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data command failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message body: %w", err)
	}

	return client.Quit()
}
