package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmailConfig holds SMTP delivery parameters.
type EmailConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   string
}

// Email delivers digests as multipart/alternative mail over SMTP with
// STARTTLS.
type Email struct {
	cfg EmailConfig
}

// NewEmail creates the email transport.
func NewEmail(cfg EmailConfig) *Email {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Email{cfg: cfg}
}

// Name identifies the transport in logs.
func (e *Email) Name() string { return "email" }

// Deliver sends the digest. The plain fallback rides along as the first
// alternative part for clients that refuse HTML.
func (e *Email) Deliver(ctx context.Context, subject, htmlBody, plainFallback string) error {
	addr := net.JoinHostPort(e.cfg.Host, fmt.Sprintf("%d", e.cfg.Port))

	conn, err := (&net.Dialer{Timeout: 20 * time.Second}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	client, err := smtp.NewClient(conn, e.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: e.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if e.cfg.User != "" && e.cfg.Pass != "" {
		auth := smtp.PlainAuth("", e.cfg.User, e.cfg.Pass, e.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(e.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(e.cfg.To); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(e.buildMessage(subject, htmlBody, plainFallback))); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}
	return client.Quit()
}

func (e *Email) buildMessage(subject, htmlBody, plainFallback string) string {
	boundary := strings.ReplaceAll(uuid.NewString(), "-", "")

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", e.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", e.cfg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	if plainFallback != "" {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(plainFallback)
		b.WriteString("\r\n")
	}
	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.String()
}
