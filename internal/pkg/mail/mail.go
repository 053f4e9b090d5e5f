package mail

import (
	"context"
	"errors"
	"io"
)

// Message represents a provider-agnostic email payload.
type Message struct {
	// From is an optional explicit sender; fallback depends on implementation.
	From string
	// To lists required recipients.
	To []string
	// Cc lists carbon copy recipients.
	Cc []string
	// Bcc lists blind carbon copy recipients.
	Bcc []string
	// Subject is the email subject line.
	Subject string
	// TextBody is the plain-text body; preferred when HTMLBody is empty.
	TextBody string
	// HTMLBody is the optional HTML body.
	HTMLBody string
}

// ErrNoRecipients is returned when To, Cc and Bcc are all empty.
var ErrNoRecipients = errors.New("mail: no recipients provided")

// ErrNoSender is returned when neither Message.From nor a default sender is set.
var ErrNoSender = errors.New("mail: no sender provided")

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	// Send dispatches the given message using the underlying provider.
	Send(ctx context.Context, msg Message) error
}

func (m Message) recipients() []string {
	all := make([]string, 0, len(m.To)+len(m.Cc)+len(m.Bcc))
	all = append(all, m.To...)
	all = append(all, m.Cc...)
	return append(all, m.Bcc...)
}

func (m Message) sender(fallback string) (string, error) {
	if m.From != "" {
		return m.From, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", ErrNoSender
}
