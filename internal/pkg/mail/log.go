package mail

import (
	"context"
	"log/slog"
)

// Log is a Mail implementation that only records envelope metadata.
// Bodies are never logged because they carry secrets.
type Log struct {
	defaultFrom string
}

// NewLog returns a Log mailer.
func NewLog(from string) *Log {
	return &Log{defaultFrom: from}
}

func (l *Log) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.recipients()) == 0 {
		return ErrNoRecipients
	}

	from, err := msg.sender(l.defaultFrom)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "mail accepted by log driver", "from", from, "to", msg.To, "subject", msg.Subject)
	return nil
}

func (l *Log) Close() error {
	return nil
}
