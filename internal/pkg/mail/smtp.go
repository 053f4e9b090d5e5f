package mail

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// ErrSMTPHostPortRequired is returned when Host/Port are missing.
var ErrSMTPHostPortRequired = errors.New("mail: smtp host and port are required")

// SMTPConfig configures the SMTP implementation.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the default sender when Message.From is empty.
	From string
}

// SMTP is a Mail implementation backed by net/smtp.
type SMTP struct {
	addr        string
	defaultFrom string
	auth        smtp.Auth
	sendMail    func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTP constructs an SMTP mail sender. Auth is PLAIN when credentials are set.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTP{
		addr:        net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		defaultFrom: cfg.From,
		auth:        auth,
		sendMail:    smtp.SendMail,
	}, nil
}

// Send delivers a message over SMTP.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	recipients := msg.recipients()
	if len(recipients) == 0 {
		return ErrNoRecipients
	}

	from, err := msg.sender(s.defaultFrom)
	if err != nil {
		return err
	}

	return s.sendMail(s.addr, s.auth, from, recipients, buildRaw(from, msg))
}

// Close implements io.Closer; connections are per message.
func (s *SMTP) Close() error {
	return nil
}

func buildRaw(from string, msg Message) []byte {
	body, contentType := buildBody(msg)

	headers := []string{
		"From: " + from,
		"To: " + strings.Join(msg.To, ", "),
	}
	if len(msg.Cc) > 0 {
		headers = append(headers, "Cc: "+strings.Join(msg.Cc, ", "))
	}
	headers = append(headers,
		"Subject: "+msg.Subject,
		"MIME-Version: 1.0",
		"Content-Type: "+contentType,
	)

	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + body)
}

func buildBody(msg Message) (body string, contentType string) {
	if msg.HTMLBody == "" {
		return msg.TextBody, "text/plain; charset=UTF-8"
	}
	if msg.TextBody == "" {
		return msg.HTMLBody, "text/html; charset=UTF-8"
	}

	boundary := multipartBoundary()
	var sb strings.Builder
	sb.WriteString("This is a multipart message in MIME format.\r\n")
	for _, part := range []struct{ ct, content string }{
		{"text/plain", msg.TextBody},
		{"text/html", msg.HTMLBody},
	} {
		fmt.Fprintf(&sb, "--%s\r\nContent-Type: %s; charset=UTF-8\r\n\r\n%s\r\n", boundary, part.ct, part.content)
	}
	fmt.Fprintf(&sb, "--%s--", boundary)

	return sb.String(), "multipart/alternative; boundary=" + boundary
}

func multipartBoundary() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "mailotp-boundary-fallback"
	}
	return "mailotp-boundary-" + hex.EncodeToString(b[:])
}
