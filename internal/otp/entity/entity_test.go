package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Or(t *testing.T) {
	got := Policy{MaxAttempts: 3, TTL: -time.Second}.Or(DefaultPolicy())

	assert.Equal(t, Policy{
		CodeLength:   6,
		TTL:          300 * time.Second,
		MaxPerWindow: 5,
		Cooldown:     30 * time.Second,
		MaxAttempts:  3,
	}, got)
	assert.Equal(t, 5, got.TTLMinutes())
}

func TestKeys(t *testing.T) {
	e := NormalizeEmail("  A@B.com ")

	assert.Equal(t, "a@b.com", e)
	assert.Equal(t, "otp:a@b.com:code", CodeKey(e))
	assert.Equal(t, "otp:a@b.com:count", CountKey(e))
	assert.Equal(t, "otp:a@b.com:cooldown", CooldownKey(e))
	assert.Equal(t, "otp:attempt:a@b.com", AttemptKey(e))
}

func TestIssueResult_Message(t *testing.T) {
	r := IssueResult{Status: IssueOnCooldown, RetryAfter: 12500 * time.Millisecond}

	assert.Equal(t, int64(13), r.RetryAfterSeconds())
	assert.Equal(t, "Please wait 13 seconds before requesting another OTP.", r.Message())
	assert.Equal(t, "cooldown", r.Status.Reason())
	assert.Equal(t, "internal_error", IssueStatus(99).Reason())
}

func TestVerifyStatus_Reason(t *testing.T) {
	tests := map[VerifyStatus]string{
		VerifyVerified:        "verified",
		VerifyNotFound:        "otp_expired",
		VerifyTooManyAttempts: "too_many_attempts",
		VerifyInvalid:         "invalid_otp",
		VerifyInternalError:   "internal_error",
	}
	for status, reason := range tests {
		assert.Equal(t, reason, status.Reason())
		assert.NotEmpty(t, status.Message())
	}
}
