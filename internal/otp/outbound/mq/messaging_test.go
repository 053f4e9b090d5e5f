package mq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/mailotp/internal/otp/usecase"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/messaging"
	"github.com/shandysiswandi/mailotp/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyPublisher struct {
	mu       sync.Mutex
	failures int
	calls    int
	last     messaging.OutgoingMessage
	dest     string
}

func (p *flakyPublisher) Publish(_ context.Context, dest string, msg messaging.OutgoingMessage) (messaging.PublishResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	if p.calls <= p.failures {
		return messaging.PublishResult{}, errors.New("broker down")
	}
	p.last, p.dest = msg, dest
	return messaging.PublishResult{Topic: dest}, nil
}

func (p *flakyPublisher) Close() error { return nil }

func TestMessaging_PublishOTPSent_Retries(t *testing.T) {
	pub := &flakyPublisher{failures: 2}
	m := NewMessaging(pub, instrument.NewNoop(), RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond})

	ctx := instrument.SetCorrelationID(context.Background(), "cid-1")
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, m.PublishOTPSent(ctx, usecase.OTPSentEvent{Email: "a@b.com", Reused: true, SentAt: at}))

	assert.Equal(t, 3, pub.calls)
	assert.Equal(t, event.OTPSentDestination, pub.dest)
	assert.Contains(t, pub.last.Headers, messaging.Header{Key: "cID", Value: []byte("cid-1")})

	var got event.OTPSentMessage
	require.NoError(t, json.Unmarshal(pub.last.Body, &got))
	assert.Equal(t, event.OTPSentMessage{Email: "a@b.com", Reused: true, SentAt: at}, got)
}

func TestMessaging_PublishEmailVerified_GivesUp(t *testing.T) {
	pub := &flakyPublisher{failures: 10}
	m := NewMessaging(pub, instrument.NewNoop(), RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond})

	err := m.PublishEmailVerified(context.Background(), usecase.EmailVerifiedEvent{Email: "a@b.com"})

	assert.Error(t, err)
	assert.Equal(t, 3, pub.calls)
}
