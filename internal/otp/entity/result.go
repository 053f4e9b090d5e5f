package entity

import (
	"fmt"
	"math"
	"time"
)

// IssueStatus is the outcome of an issuance request.
type IssueStatus int

const (
	IssueSent IssueStatus = iota
	IssueRateLimited
	IssueOnCooldown
	IssueDeliveryFailed
	IssueInternalError
)

// Reason is the stable wire code of the status.
func (s IssueStatus) Reason() string {
	switch s {
	case IssueSent:
		return "successful"
	case IssueRateLimited:
		return "rate_limited"
	case IssueOnCooldown:
		return "cooldown"
	case IssueDeliveryFailed:
		return "send_failed"
	default:
		return "internal_error"
	}
}

func (s IssueStatus) String() string {
	return s.Reason()
}

// IssueResult is what the caller learns about an issuance. It never carries the code.
type IssueResult struct {
	Status IssueStatus
	// Reused reports that the still-active code was sent again.
	Reused bool
	// RetryAfter is set for IssueRateLimited and IssueOnCooldown.
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds.
func (r IssueResult) RetryAfterSeconds() int64 {
	return int64(math.Ceil(r.RetryAfter.Seconds()))
}

// Message is a human readable explanation of the outcome.
func (r IssueResult) Message() string {
	switch r.Status {
	case IssueSent:
		return "OTP sent"
	case IssueRateLimited:
		return "Too many OTP requests. Try again later."
	case IssueOnCooldown:
		return fmt.Sprintf("Please wait %d seconds before requesting another OTP.", r.RetryAfterSeconds())
	case IssueDeliveryFailed:
		return "Failed to send OTP email"
	default:
		return "OTP request failed"
	}
}

// VerifyStatus is the outcome of a verification.
type VerifyStatus int

const (
	VerifyVerified VerifyStatus = iota
	VerifyNotFound
	VerifyTooManyAttempts
	VerifyInvalid
	VerifyInternalError
)

// Reason is the stable wire code of the status.
func (s VerifyStatus) Reason() string {
	switch s {
	case VerifyVerified:
		return "verified"
	case VerifyNotFound:
		return "otp_expired"
	case VerifyTooManyAttempts:
		return "too_many_attempts"
	case VerifyInvalid:
		return "invalid_otp"
	default:
		return "internal_error"
	}
}

func (s VerifyStatus) String() string {
	return s.Reason()
}

// Message is a human readable explanation of the outcome.
func (s VerifyStatus) Message() string {
	switch s {
	case VerifyVerified:
		return "OTP verified successfully"
	case VerifyNotFound:
		return "OTP expired or not found"
	case VerifyTooManyAttempts:
		return "Too many invalid attempts. Please request a new OTP."
	case VerifyInvalid:
		return "Invalid OTP"
	default:
		return "OTP verification failed"
	}
}

// VerifyResult is what the caller learns about a verification.
type VerifyResult struct {
	Status VerifyStatus
}
