package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/samber/lo"
	"google.golang.org/api/option"
)

// ErrPubSubProjectIDRequired is returned when a ProjectID is required but missing.
var ErrPubSubProjectIDRequired = errors.New("pkgmessage: pubsub project id is required")

// PubSubConfig configures the Google Pub/Sub implementation.
type PubSubConfig struct {
	// ProjectID is the Google Cloud project ID.
	ProjectID string
	// Endpoint overrides the API endpoint, e.g. the emulator address.
	Endpoint string
	// WithoutAuth disables credentials lookup (emulator).
	WithoutAuth bool
	// ClientOptions are appended to the options derived above.
	ClientOptions []option.ClientOption
}

// PubSub is a publisher backed by Google Pub/Sub.
type PubSub struct {
	client *pubsub.Client

	mu         sync.Mutex
	closed     bool
	publishers map[string]*pubsub.Publisher
}

// NewPubSub constructs a Pub/Sub publisher.
func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	if cfg.ProjectID == "" {
		return nil, ErrPubSubProjectIDRequired
	}

	opts := make([]option.ClientOption, 0, len(cfg.ClientOptions)+2)
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.WithoutAuth {
		opts = append(opts, option.WithoutAuthentication())
	}
	opts = append(opts, cfg.ClientOptions...)

	c, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("pkgmessage: pubsub new client: %w", err)
	}

	return &PubSub{client: c, publishers: map[string]*pubsub.Publisher{}}, nil
}

// Close stops publishers, flushing pending messages, and closes the client.
func (p *PubSub) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	pubs := lo.Values(p.publishers)
	p.publishers = nil
	p.mu.Unlock()

	for _, pub := range pubs {
		pub.Stop()
	}
	return p.client.Close()
}

// Publish sends a message to a Pub/Sub topic and waits for the server id.
func (p *PubSub) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}
	if msg.Delay > 0 {
		return PublishResult{}, ErrUnsupported
	}

	pub, err := p.publisher(destination)
	if err != nil {
		return PublishResult{}, err
	}

	res := pub.Publish(ctx, &pubsub.Message{
		Data:        msg.Body,
		Attributes:  attributesOf(msg),
		OrderingKey: msg.OrderingKey,
	})
	id, err := res.Get(ctx)
	if err != nil {
		return PublishResult{}, fmt.Errorf("pkgmessage: pubsub publish: %w", err)
	}

	return PublishResult{MessageID: id, Topic: destination, Timestamp: time.Now()}, nil
}

func (p *PubSub) publisher(topic string) (*pubsub.Publisher, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, io.ErrClosedPipe
	}
	if pub, ok := p.publishers[topic]; ok {
		return pub, nil
	}
	pub := p.client.Publisher(topic)
	p.publishers[topic] = pub
	return pub, nil
}
