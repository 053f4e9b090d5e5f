package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifyInput struct {
	EmailAddress string `validate:"required,email"`
	Code         string `validate:"required,otp,max=9"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	tests := []struct {
		name   string
		in     verifyInput
		fields map[string]string
	}{
		{name: "valid", in: verifyInput{EmailAddress: "a@b.com", Code: "000123"}},
		{
			name:   "bad email",
			in:     verifyInput{EmailAddress: "nope", Code: "123456"},
			fields: map[string]string{"email_address": "EmailAddress must be a valid email address"},
		},
		{
			name:   "non digit code",
			in:     verifyInput{EmailAddress: "a@b.com", Code: "12a456"},
			fields: map[string]string{"code": "Code must contain only digits"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			var verr V10ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, verr.Values())
		})
	}
}

func TestV10ValidationError_EmptyMessage(t *testing.T) {
	assert.Equal(t, "validation error", V10ValidationError{}.Error())
}
