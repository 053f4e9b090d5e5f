package messaging

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/samber/lo"
)

var (
	// ErrUnsupported is returned when a feature is not supported by the selected broker.
	//
	// For example, not all brokers support delayed delivery.
	ErrUnsupported = errors.New("pkgmessage: unsupported operation")
	// ErrDestinationRequired is returned when Publish is called without a destination.
	ErrDestinationRequired = errors.New("pkgmessage: destination is required")
)

// Publisher publishes messages to a destination (topic/subject).
type Publisher interface {
	io.Closer

	// Publish sends a message to the destination.
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// OutgoingMessage represents a broker-agnostic message to be published.
type OutgoingMessage struct {
	// Body is the message payload.
	Body []byte

	// Key is used by Kafka for partitioning.
	Key []byte

	// Headers support arbitrary binary values and duplicate keys.
	// Brokers with string attributes (Pub/Sub) receive them as attributes.
	Headers []Header

	// Attributes is a convenience for brokers that model string attributes (e.g. Pub/Sub).
	Attributes map[string]string

	// OrderingKey is used by Google Pub/Sub.
	OrderingKey string

	// Delay is used for deferred delivery (NSQ only).
	Delay time.Duration
}

// Header is a key/value pair used for message headers.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult carries optional broker-specific publish metadata.
type PublishResult struct {
	// MessageID is the broker-assigned message ID, when the broker returns one.
	MessageID string
	// Topic is the destination the message was written to.
	Topic string
	// Timestamp is when the message was handed to the broker.
	Timestamp time.Time
}

func validHeaders(headers []Header) []Header {
	return lo.Filter(headers, func(h Header, _ int) bool { return h.Key != "" })
}

func attributesOf(msg OutgoingMessage) map[string]string {
	headers := validHeaders(msg.Headers)
	if len(headers) == 0 {
		return msg.Attributes
	}

	attrs := lo.Assign(lo.SliceToMap(headers, func(h Header) (string, string) {
		return h.Key, string(h.Value)
	}), msg.Attributes)
	return attrs
}
