package messaging

import (
	"context"
	"time"
)

// Noop accepts and discards every message. It backs deployments without a broker.
type Noop struct{}

// NewNoop returns a Noop publisher.
func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) Publish(ctx context.Context, destination string, _ OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}
	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

func (*Noop) Close() error {
	return nil
}
