package otp

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"

	libotp "github.com/pquerna/otp"
)

const (
	// MinLength is the shortest supported code.
	MinLength = 1
	// MaxLength is the longest supported code; 10^9 still fits an int32 render.
	MaxLength = 9
)

// ErrInvalidLength is returned for lengths outside [MinLength, MaxLength].
var ErrInvalidLength = errors.New("otp: code length must be between 1 and 9")

// Generator produces numeric codes of a given width.
type Generator interface {
	Generate(length int) (string, error)
}

// Numeric draws codes uniformly from [0, 10^length).
type Numeric struct {
	rand io.Reader
}

// NewNumeric returns a Numeric generator backed by crypto/rand.
func NewNumeric() *Numeric {
	return &Numeric{rand: rand.Reader}
}

// NewNumericFromReader is like NewNumeric with a custom entropy source.
func NewNumericFromReader(r io.Reader) *Numeric {
	return &Numeric{rand: r}
}

// Generate returns a zero-padded decimal string of exactly length digits.
func (n *Numeric) Generate(length int) (string, error) {
	if length < MinLength || length > MaxLength {
		return "", ErrInvalidLength
	}

	upper := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	v, err := rand.Int(n.rand, upper)
	if err != nil {
		return "", err
	}

	return Format(v.Int64(), length), nil
}

// Format renders v as a zero-padded decimal string of length digits.
// v must be within [0, 10^length).
func Format(v int64, length int) string {
	return libotp.Digits(length).Format(int32(v))
}
