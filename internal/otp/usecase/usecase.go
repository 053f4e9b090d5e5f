package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/mailotp/internal/otp/entity"
	"github.com/shandysiswandi/mailotp/internal/pkg/clock"
	"github.com/shandysiswandi/mailotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/mail"
	"github.com/shandysiswandi/mailotp/internal/pkg/otp"
	"github.com/shandysiswandi/mailotp/internal/pkg/uid"
	"github.com/shandysiswandi/mailotp/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type OTPSentEvent struct {
	Email  string
	Reused bool
	SentAt time.Time
}

type EmailVerifiedEvent struct {
	Email      string
	VerifiedAt time.Time
}

type repoCache interface {
	IncrRequestCount(ctx context.Context, email string) (int64, error)
	ExpireRequestCount(ctx context.Context, email string, ttl time.Duration) error
	RequestCountTTL(ctx context.Context, email string) (time.Duration, bool, error)

	AcquireCooldown(ctx context.Context, email string, ttl time.Duration) (bool, error)
	CooldownTTL(ctx context.Context, email string) (time.Duration, bool, error)
	SetCooldown(ctx context.Context, email string, ttl time.Duration) error
	ReleaseCooldown(ctx context.Context, email string) error

	GetCode(ctx context.Context, email string) (string, error)
	SetCode(ctx context.Context, email, code string, ttl time.Duration) error
	CodeTTL(ctx context.Context, email string) (time.Duration, bool, error)
	DeleteCode(ctx context.Context, email string) (bool, error)

	GetAttempts(ctx context.Context, email string) (int64, error)
	IncrAttempts(ctx context.Context, email string) (int64, error)
	ExpireAttempts(ctx context.Context, email string, ttl time.Duration) error
	DeleteAttempts(ctx context.Context, email string) error
}

type repoEmail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type repoMessaging interface {
	PublishOTPSent(ctx context.Context, msg OTPSentEvent) error
	PublishEmailVerified(ctx context.Context, msg EmailVerifiedEvent) error
}

type repoDB interface {
	CreateDeliveryLog(ctx context.Context, in entity.DeliveryLog) error
}

type Usecase struct {
	repoCache     repoCache
	repoEmail     repoEmail
	repoMessaging repoMessaging
	repoDB        repoDB
	generator     otp.Generator
	validator     validator.Validator
	policy        entity.Policy
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager

	issueCounter  metric.Int64Counter
	verifyCounter metric.Int64Counter
}

type Dependency struct {
	RepoCache     repoCache
	RepoEmail     repoEmail
	RepoMessaging repoMessaging
	// RepoDB is optional; nil disables the delivery log.
	RepoDB    repoDB
	Generator otp.Generator
	Validator validator.Validator
	// Policy is the service-wide policy; per-call policies fall back to it.
	Policy     entity.Policy
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
	Goroutine  *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	meter := dep.Instrument.Meter("otp.usecase")

	issueCounter, err := meter.Int64Counter("otp.issue.results", metric.WithDescription("OTP issuance outcomes by reason"))
	if err != nil {
		slog.Error("failed to create otp issue counter", "error", err)
	}
	verifyCounter, err := meter.Int64Counter("otp.verify.results", metric.WithDescription("OTP verification outcomes by reason"))
	if err != nil {
		slog.Error("failed to create otp verify counter", "error", err)
	}

	return &Usecase{
		repoCache:     dep.RepoCache,
		repoEmail:     dep.RepoEmail,
		repoMessaging: dep.RepoMessaging,
		repoDB:        dep.RepoDB,
		generator:     dep.Generator,
		validator:     dep.Validator,
		policy:        dep.Policy.Or(entity.DefaultPolicy()),
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
		issueCounter:  issueCounter,
		verifyCounter: verifyCounter,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

func (s *Usecase) count(ctx context.Context, c metric.Int64Counter, reason string) {
	if c != nil {
		c.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

// fail marks the span and logs an infrastructure failure.
func fail(ctx context.Context, span trace.Span, msg, email string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	slog.ErrorContext(ctx, msg, "email", email, "error", err)
}
