package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/mailotp/internal/otp/usecase"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/messaging"
	"github.com/shandysiswandi/mailotp/internal/shared/event"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	keyOfCorrelationID string = "cID"
	keyOfEvent         string = "event"
)

// RetryConfig bounds publish retries. Zero values use the defaults.
type RetryConfig struct {
	MaxRetries uint64
	BaseDelay  time.Duration
}

type Messaging struct {
	client  messaging.Publisher
	ins     instrument.Instrumentation
	backoff func() retry.Backoff
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation, rc RetryConfig) *Messaging {
	if rc.MaxRetries == 0 {
		rc.MaxRetries = 3
	}
	if rc.BaseDelay <= 0 {
		rc.BaseDelay = 100 * time.Millisecond
	}

	return &Messaging{
		client: client,
		ins:    ins,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(rc.MaxRetries, retry.WithJitterPercent(10, retry.NewExponential(rc.BaseDelay)))
		},
	}
}

func (m *Messaging) PublishOTPSent(ctx context.Context, msg usecase.OTPSentEvent) error {
	return m.publish(ctx, "PublishOTPSent", event.OTPSentDestination, event.OTPSentMessage{
		Email:  msg.Email,
		Reused: msg.Reused,
		SentAt: msg.SentAt,
	})
}

func (m *Messaging) PublishEmailVerified(ctx context.Context, msg usecase.EmailVerifiedEvent) error {
	return m.publish(ctx, "PublishEmailVerified", event.EmailVerifiedDestination, event.EmailVerifiedMessage{
		Email:      msg.Email,
		VerifiedAt: msg.VerifiedAt,
	})
}

func (m *Messaging) publish(ctx context.Context, spanName, destination string, payload any) error {
	ctx, span := m.ins.Tracer("otp.outbound.mq").Start(ctx, spanName)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	out := messaging.OutgoingMessage{
		Body: body,
		Headers: []messaging.Header{
			{Key: keyOfCorrelationID, Value: []byte(instrument.GetCorrelationID(ctx))},
			{Key: keyOfEvent, Value: []byte(destination)},
		},
	}

	attempts := 0
	err = retry.Do(ctx, m.backoff(), func(ctx context.Context) error {
		attempts++
		if _, err := m.client.Publish(ctx, destination, out); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	span.SetAttributes(attribute.Int("messaging.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
