package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	// ErrSendGridAPIKeyRequired is returned when the API key is missing.
	ErrSendGridAPIKeyRequired = errors.New("mail: sendgrid api key is required")
	// ErrSendGridRejected is returned when the API answers with a non-2xx status.
	ErrSendGridRejected = errors.New("mail: sendgrid rejected message")
)

// SendGridConfig configures the SendGrid implementation.
type SendGridConfig struct {
	APIKey   string
	From     string
	FromName string
	// Host overrides the API host, e.g. for a local mock. Empty means the public API.
	Host string
}

// SendGrid is a Mail implementation backed by the SendGrid v3 API.
type SendGrid struct {
	client      *sendgrid.Client
	defaultFrom string
	fromName    string
}

// NewSendGrid constructs a SendGrid mail sender.
func NewSendGrid(cfg SendGridConfig) (*SendGrid, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrSendGridAPIKeyRequired
	}

	client := sendgrid.NewSendClient(cfg.APIKey)
	if host := strings.TrimRight(cfg.Host, "/"); host != "" {
		client.BaseURL = host + "/v3/mail/send"
	}

	return &SendGrid{client: client, defaultFrom: cfg.From, fromName: cfg.FromName}, nil
}

// Send delivers a message through the SendGrid API.
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.recipients()) == 0 {
		return ErrNoRecipients
	}

	from, err := msg.sender(s.defaultFrom)
	if err != nil {
		return err
	}

	resp, err := s.client.SendWithContext(ctx, s.build(from, msg))
	if err != nil {
		return fmt.Errorf("mail: sendgrid send: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status %d: %s", ErrSendGridRejected, resp.StatusCode, resp.Body)
	}

	return nil
}

// Close implements io.Closer; the client is stateless.
func (s *SendGrid) Close() error {
	return nil
}

func (s *SendGrid) build(from string, msg Message) *sgmail.SGMailV3 {
	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(s.fromName, from))
	m.Subject = msg.Subject

	p := sgmail.NewPersonalization()
	p.AddTos(toEmails(msg.To)...)
	p.AddCCs(toEmails(msg.Cc)...)
	p.AddBCCs(toEmails(msg.Bcc)...)
	m.AddPersonalizations(p)

	// SendGrid requires text/plain to precede text/html.
	if msg.TextBody != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.TextBody))
	}
	if msg.HTMLBody != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLBody))
	}

	return m
}

func toEmails(addrs []string) []*sgmail.Email {
	out := make([]*sgmail.Email, 0, len(addrs))
	for _, addr := range addrs {
		out = append(out, sgmail.NewEmail("", addr))
	}
	return out
}
