package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	nsq "github.com/nsqio/go-nsq"
	"go.uber.org/atomic"
)

// ErrNSQProducerAddrRequired is returned when the producer address is missing.
var ErrNSQProducerAddrRequired = errors.New("pkgmessage: nsq producer address is required")

// NSQConfig configures the NSQ implementation.
type NSQConfig struct {
	// ProducerAddr is the nsqd TCP address for publishing.
	ProducerAddr string
	// ProducerConfig overrides the default producer config.
	ProducerConfig *nsq.Config
}

// NSQ is a publisher backed by an nsqd producer.
//
// NSQ has no message headers; Headers and Attributes are dropped.
type NSQ struct {
	producer *nsq.Producer
	closed   atomic.Bool
}

// NewNSQ constructs an NSQ publisher.
func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	if cfg.ProducerAddr == "" {
		return nil, ErrNSQProducerAddrRequired
	}

	pcfg := cfg.ProducerConfig
	if pcfg == nil {
		pcfg = nsq.NewConfig()
	}

	p, err := nsq.NewProducer(cfg.ProducerAddr, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pkgmessage: nsq new producer: %w", err)
	}
	p.SetLoggerLevel(nsq.LogLevelError)

	return &NSQ{producer: p}, nil
}

// Close stops the producer.
func (n *NSQ) Close() error {
	if n.closed.CompareAndSwap(false, true) {
		n.producer.Stop()
	}
	return nil
}

// Publish sends a message to an NSQ topic, deferred when msg.Delay is set.
func (n *NSQ) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}

	if msg.Delay > 0 {
		if err := n.producer.DeferredPublish(destination, msg.Delay, msg.Body); err != nil {
			return PublishResult{}, fmt.Errorf("pkgmessage: nsq deferred publish: %w", err)
		}
	} else if err := n.producer.Publish(destination, msg.Body); err != nil {
		return PublishResult{}, fmt.Errorf("pkgmessage: nsq publish: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}
