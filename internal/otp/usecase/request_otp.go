package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/mailotp/internal/otp/entity"
	"github.com/shandysiswandi/mailotp/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type RequestOTPInput struct {
	Email string `validate:"required,email,max=254"`
	// Policy overrides the service-wide policy field by field.
	Policy entity.Policy `validate:"-"`
}

type RequestOTPOutput struct {
	Result entity.IssueResult
}

// RequestOTP rate-limits, delivers and stores a code for the email. Policy
// outcomes and infrastructure failures are reported through the result; an
// error is returned only for invalid input.
func (s *Usecase) RequestOTP(ctx context.Context, in RequestOTPInput) (*RequestOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestOTP")
	defer span.End()

	in.Email = entity.NormalizeEmail(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	res := s.issue(ctx, span, in.Email, in.Policy.Or(s.policy))

	span.SetAttributes(attribute.String("otp.reason", res.Status.Reason()), attribute.Bool("otp.reused", res.Reused))
	s.count(ctx, s.issueCounter, res.Status.Reason())

	return &RequestOTPOutput{Result: res}, nil
}

func (s *Usecase) issue(ctx context.Context, span trace.Span, email string, p entity.Policy) entity.IssueResult {
	internal := entity.IssueResult{Status: entity.IssueInternalError}

	// every request consumes quota, whatever the outcome
	count, err := s.repoCache.IncrRequestCount(ctx, email)
	if err != nil {
		fail(ctx, span, "failed to repo increment request count", email, err)
		return internal
	}
	if count == 1 {
		if err := s.repoCache.ExpireRequestCount(ctx, email, entity.RateWindow); err != nil {
			fail(ctx, span, "failed to repo expire request count", email, err)
			return internal
		}
	}
	if count > p.MaxPerWindow {
		ttl, ok, err := s.repoCache.RequestCountTTL(ctx, email)
		if err != nil {
			fail(ctx, span, "failed to repo get request count ttl", email, err)
			return internal
		}
		if !ok {
			// counter outlived a lost EXPIRE; reopen the window so the email is not locked out forever
			slog.WarnContext(ctx, "request counter without expiry", "email", email, "count", count)
			if err := s.repoCache.ExpireRequestCount(ctx, email, entity.RateWindow); err != nil {
				fail(ctx, span, "failed to repo expire request count", email, err)
				return internal
			}
			ttl = entity.RateWindow
		}
		slog.InfoContext(ctx, "otp request rate limited", "email", email, "count", count)
		return entity.IssueResult{Status: entity.IssueRateLimited, RetryAfter: ttl}
	}

	acquired, err := s.repoCache.AcquireCooldown(ctx, email, p.Cooldown)
	if err != nil {
		fail(ctx, span, "failed to repo acquire cooldown", email, err)
		return internal
	}
	if !acquired {
		ttl, ok, err := s.repoCache.CooldownTTL(ctx, email)
		if err != nil {
			slog.WarnContext(ctx, "failed to repo get cooldown ttl", "email", email, "error", err)
		}
		if err != nil || !ok {
			ttl = p.Cooldown
		}
		return entity.IssueResult{Status: entity.IssueOnCooldown, RetryAfter: ttl}
	}

	code, reused, err := s.resolveCode(ctx, email, p)
	if err != nil {
		fail(ctx, span, "failed to resolve otp code", email, err)
		s.releaseCooldown(ctx, email)
		return internal
	}

	msg, err := renderMail(email, code, p.TTLMinutes())
	if err != nil {
		fail(ctx, span, "failed to render otp mail", email, err)
		s.releaseCooldown(ctx, email)
		return internal
	}

	if err := s.repoEmail.Send(ctx, msg); err != nil {
		// nothing new is persisted so an unsent code never becomes active
		fail(ctx, span, "failed to send otp mail", email, err)
		s.releaseCooldown(ctx, email)
		s.recordDelivery(ctx, email, reused, err)
		return entity.IssueResult{Status: entity.IssueDeliveryFailed, Reused: reused}
	}

	if reused {
		if err := s.repoCache.ExpireAttempts(ctx, email, p.TTL); err != nil {
			slog.WarnContext(ctx, "failed to repo align attempts ttl", "email", email, "error", err)
		}
	} else if err := s.repoCache.DeleteAttempts(ctx, email); err != nil {
		fail(ctx, span, "failed to repo reset attempts", email, err)
		s.releaseCooldown(ctx, email)
		return internal
	}

	if err := s.repoCache.SetCode(ctx, email, code, p.TTL); err != nil {
		fail(ctx, span, "failed to repo store otp code", email, err)
		s.releaseCooldown(ctx, email)
		return internal
	}

	// restart the cooldown at send time; the marker from AcquireCooldown still guards on failure
	if err := s.repoCache.SetCooldown(ctx, email, p.Cooldown); err != nil {
		slog.WarnContext(ctx, "failed to repo refresh cooldown", "email", email, "error", err)
	}

	s.recordDelivery(ctx, email, reused, nil)
	s.publishSent(ctx, email, reused)

	slog.InfoContext(ctx, "otp sent", "email", email, "reused", reused)
	return entity.IssueResult{Status: entity.IssueSent, Reused: reused}
}

// resolveCode keeps the active code unless its attempts are exhausted.
func (s *Usecase) resolveCode(ctx context.Context, email string, p entity.Policy) (string, bool, error) {
	code, err := s.repoCache.GetCode(ctx, email)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		return "", false, err
	}

	if err == nil {
		attempts, err := s.repoCache.GetAttempts(ctx, email)
		if err != nil {
			return "", false, err
		}
		if attempts < p.MaxAttempts {
			return code, true, nil
		}
		slog.InfoContext(ctx, "replacing otp code with exhausted attempts", "email", email, "attempts", attempts)
	}

	code, err = s.generator.Generate(p.CodeLength)
	if err != nil {
		return "", false, err
	}
	return code, false, nil
}

func (s *Usecase) releaseCooldown(ctx context.Context, email string) {
	if err := s.repoCache.ReleaseCooldown(ctx, email); err != nil {
		slog.WarnContext(ctx, "failed to repo release cooldown", "email", email, "error", err)
	}
}

func (s *Usecase) recordDelivery(ctx context.Context, email string, reused bool, sendErr error) {
	if s.repoDB == nil {
		return
	}

	row := entity.DeliveryLog{
		ID:        s.uid.Generate(),
		Email:     email,
		Reused:    reused,
		Status:    entity.DeliveryStatusSent,
		CreatedAt: s.clock.Now(),
	}
	if sendErr != nil {
		row.Status = entity.DeliveryStatusFailed
		row.ProviderError = sendErr.Error()
	}

	s.goroutine.Go(ctx, func(ctx context.Context) error {
		if err := s.repoDB.CreateDeliveryLog(ctx, row); err != nil {
			slog.ErrorContext(ctx, "failed to repo create delivery log", "email", email, "error", err)
			return err
		}
		return nil
	})
}

func (s *Usecase) publishSent(ctx context.Context, email string, reused bool) {
	ev := OTPSentEvent{Email: email, Reused: reused, SentAt: s.clock.Now()}

	s.goroutine.Go(ctx, func(ctx context.Context) error {
		if err := s.repoMessaging.PublishOTPSent(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "failed to publish otp sent", "email", email, "error", err)
			return err
		}
		return nil
	})
}
