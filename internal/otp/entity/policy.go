package entity

import (
	"strings"
	"time"
)

// RateWindow is the fixed issuance quota window per email.
const RateWindow = 60 * time.Second

// Policy tunes issuance and verification. Zero fields fall back to the
// service-wide policy through Or.
type Policy struct {
	CodeLength   int
	TTL          time.Duration
	MaxPerWindow int64
	Cooldown     time.Duration
	MaxAttempts  int64
}

// DefaultPolicy returns the built-in defaults.
func DefaultPolicy() Policy {
	return Policy{
		CodeLength:   6,
		TTL:          300 * time.Second,
		MaxPerWindow: 5,
		Cooldown:     30 * time.Second,
		MaxAttempts:  5,
	}
}

// Or fills every non-positive field of p from fallback.
func (p Policy) Or(fallback Policy) Policy {
	if p.CodeLength <= 0 {
		p.CodeLength = fallback.CodeLength
	}
	if p.TTL <= 0 {
		p.TTL = fallback.TTL
	}
	if p.MaxPerWindow <= 0 {
		p.MaxPerWindow = fallback.MaxPerWindow
	}
	if p.Cooldown <= 0 {
		p.Cooldown = fallback.Cooldown
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = fallback.MaxAttempts
	}
	return p
}

// TTLMinutes is the code lifetime in whole minutes, as shown to recipients.
func (p Policy) TTLMinutes() int {
	return int(p.TTL / time.Minute)
}

// NormalizeEmail trims and lower-cases an address. Every key uses the
// normalized form.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// CodeKey holds the active code.
func CodeKey(email string) string { return "otp:" + email + ":code" }

// CountKey holds the issuance counter of the current rate window.
func CountKey(email string) string { return "otp:" + email + ":count" }

// CooldownKey marks a recent successful send.
func CooldownKey(email string) string { return "otp:" + email + ":cooldown" }

// AttemptKey counts failed verifications against the active code.
func AttemptKey(email string) string { return "otp:attempt:" + email }
