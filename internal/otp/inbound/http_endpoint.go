package inbound

import (
	"strconv"

	"github.com/shandysiswandi/mailotp/internal/otp/entity"
	"github.com/shandysiswandi/mailotp/internal/otp/usecase"
	"github.com/shandysiswandi/mailotp/internal/pkg/goerror"
	"github.com/shandysiswandi/mailotp/internal/pkg/router"
)

const (
	fieldReason     = "reason"
	fieldRetryAfter = "retry_after_seconds"
)

// HTTPEndpoint exposes OTP issuance and verification over HTTP.
type HTTPEndpoint struct {
	uc uc
}

// RequestOTP sends a code to the email, reusing the active one if any.
// @Summary Request an OTP
// @Description Rate-limited per email (quota per minute plus cooldown between sends). The code itself is never returned.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body RequestOTPRequest true "Email to verify"
// @Success 200 {object} router.successResponse{data=RequestOTPResponse} "OTP sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "rate_limited or cooldown, with retry_after_seconds"
// @Failure 503 {object} router.errorResponse "send_failed"
// @Failure 500 {object} router.errorResponse "internal_error"
// @Router /api/v1/otp/send [post]
func (h *HTTPEndpoint) RequestOTP(r *router.Request) (any, error) {
	var req RequestOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.RequestOTP(r.Context(), usecase.RequestOTPInput{Email: req.Email})
	if err != nil {
		return nil, err
	}

	res := out.Result
	reason := res.Status.Reason()

	switch res.Status {
	case entity.IssueSent:
		return RequestOTPResponse{Reason: reason, Reused: res.Reused, msg: res.Message()}, nil
	case entity.IssueRateLimited, entity.IssueOnCooldown:
		return nil, goerror.NewBusiness(res.Message(), goerror.CodeTooManyRequest,
			fieldReason, reason, fieldRetryAfter, strconv.FormatInt(res.RetryAfterSeconds(), 10))
	case entity.IssueDeliveryFailed:
		return nil, goerror.NewBusiness(res.Message(), goerror.CodeUnavailable, fieldReason, reason)
	default:
		return nil, goerror.NewBusiness(res.Message(), goerror.CodeInternal, fieldReason, reason)
	}
}

// SubmitOTP checks a code previously sent to the email.
// @Summary Verify an OTP
// @Description A code verifies at most once. After too many wrong guesses a new code must be requested.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body SubmitOTPRequest true "Email and code"
// @Success 200 {object} router.successResponse{data=SubmitOTPResponse} "OTP verified"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "invalid_otp"
// @Failure 404 {object} router.errorResponse "otp_expired"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "too_many_attempts"
// @Failure 500 {object} router.errorResponse "internal_error"
// @Router /api/v1/otp/verify [post]
func (h *HTTPEndpoint) SubmitOTP(r *router.Request) (any, error) {
	var req SubmitOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{Email: req.Email, OTP: req.OTP})
	if err != nil {
		return nil, err
	}

	status := out.Result.Status
	var code goerror.Code

	switch status {
	case entity.VerifyVerified:
		return SubmitOTPResponse{Reason: status.Reason(), msg: status.Message()}, nil
	case entity.VerifyNotFound:
		code = goerror.CodeNotFound
	case entity.VerifyInvalid:
		code = goerror.CodeUnauthorized
	case entity.VerifyTooManyAttempts:
		code = goerror.CodeTooManyRequest
	default:
		code = goerror.CodeInternal
	}

	return nil, goerror.NewBusiness(status.Message(), code, fieldReason, status.Reason())
}
