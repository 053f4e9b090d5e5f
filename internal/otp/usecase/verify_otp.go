package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/mailotp/internal/otp/entity"
	"github.com/shandysiswandi/mailotp/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// errOrphanAttempts flags an attempt counter created after its code vanished.
var errOrphanAttempts = errors.New("attempt counter without active code")

type VerifyOTPInput struct {
	Email  string        `validate:"required,email,max=254"`
	OTP    string        `validate:"required,otp,max=9"`
	Policy entity.Policy `validate:"-"`
}

type VerifyOTPOutput struct {
	Result entity.VerifyResult
}

// VerifyOTP checks a submitted code. At most one caller observes Verified for
// a given code.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	in.Email = entity.NormalizeEmail(in.Email)
	in.OTP = strings.TrimSpace(in.OTP)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	status := s.verify(ctx, span, in.Email, in.OTP, in.Policy.Or(s.policy))

	span.SetAttributes(attribute.String("otp.reason", status.Reason()))
	s.count(ctx, s.verifyCounter, status.Reason())

	return &VerifyOTPOutput{Result: entity.VerifyResult{Status: status}}, nil
}

func (s *Usecase) verify(ctx context.Context, span trace.Span, email, submitted string, p entity.Policy) entity.VerifyStatus {
	stored, err := s.repoCache.GetCode(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		return entity.VerifyNotFound
	}
	if err != nil {
		fail(ctx, span, "failed to repo get otp code", email, err)
		return entity.VerifyInternalError
	}

	attempts, err := s.repoCache.GetAttempts(ctx, email)
	if err != nil {
		fail(ctx, span, "failed to repo get attempts", email, err)
		return entity.VerifyInternalError
	}
	if attempts >= p.MaxAttempts {
		slog.InfoContext(ctx, "otp attempts exhausted", "email", email, "attempts", attempts)
		return entity.VerifyTooManyAttempts
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) != 1 {
		return s.recordMismatch(ctx, span, email)
	}

	deleted, err := s.repoCache.DeleteCode(ctx, email)
	if err != nil {
		fail(ctx, span, "failed to repo delete otp code", email, err)
		return entity.VerifyInternalError
	}
	if !deleted {
		// a concurrent verification consumed the code first
		return entity.VerifyNotFound
	}

	if err := s.repoCache.DeleteAttempts(ctx, email); err != nil {
		slog.WarnContext(ctx, "failed to repo delete attempts", "email", email, "error", err)
	}

	s.publishVerified(ctx, email)

	slog.InfoContext(ctx, "otp verified", "email", email)
	return entity.VerifyVerified
}

func (s *Usecase) recordMismatch(ctx context.Context, span trace.Span, email string) entity.VerifyStatus {
	n, err := s.repoCache.IncrAttempts(ctx, email)
	if err != nil {
		fail(ctx, span, "failed to repo increment attempts", email, err)
		return entity.VerifyInternalError
	}
	if n > 1 {
		return entity.VerifyInvalid
	}

	// the counter lives exactly as long as the code it guards
	ttl, ok, err := s.repoCache.CodeTTL(ctx, email)
	if err != nil {
		fail(ctx, span, "failed to repo get otp code ttl", email, err)
		return entity.VerifyInternalError
	}
	if !ok {
		if err := s.repoCache.DeleteAttempts(ctx, email); err != nil {
			slog.WarnContext(ctx, "failed to repo delete attempts", "email", email, "error", err)
		}
		fail(ctx, span, "failed to bind attempts to otp code", email, errOrphanAttempts)
		return entity.VerifyInternalError
	}
	if err := s.repoCache.ExpireAttempts(ctx, email, ttl); err != nil {
		fail(ctx, span, "failed to repo expire attempts", email, err)
		return entity.VerifyInternalError
	}

	return entity.VerifyInvalid
}

func (s *Usecase) publishVerified(ctx context.Context, email string) {
	ev := EmailVerifiedEvent{Email: email, VerifiedAt: s.clock.Now()}

	s.goroutine.Go(ctx, func(ctx context.Context) error {
		if err := s.repoMessaging.PublishEmailVerified(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "failed to publish email verified", "email", email, "error", err)
			return err
		}
		return nil
	})
}
