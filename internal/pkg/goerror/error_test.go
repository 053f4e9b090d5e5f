package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "server", err: NewServer(errors.New("boom")), want: http.StatusInternalServerError},
		{name: "invalid input", err: NewInvalidInput(errors.New("bad")), want: http.StatusUnprocessableEntity},
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "too many", err: NewBusiness("slow down", CodeTooManyRequest), want: http.StatusTooManyRequests},
		{name: "unauthorized", err: NewBusiness("nope", CodeUnauthorized), want: http.StatusUnauthorized},
		{name: "not found", err: NewBusiness("gone", CodeNotFound), want: http.StatusNotFound},
		{name: "unavailable", err: NewBusiness("later", CodeUnavailable), want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			if assert.ErrorAs(t, tt.err, &gerr) {
				assert.Equal(t, tt.want, gerr.StatusCode())
			}
		})
	}
}

func TestNewBusiness_Fields(t *testing.T) {
	err := NewBusiness("Please wait", CodeTooManyRequest, "reason", "cooldown", "retry_after_seconds", "12", "dangling")

	var gerr *Error
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, TypeBusiness, gerr.Type())
	assert.Equal(t, "Please wait", gerr.Msg())
	assert.Equal(t, "Please wait", gerr.Error())
	assert.Equal(t, map[string]string{"reason": "cooldown", "retry_after_seconds": "12"}, gerr.Fields())
	assert.Nil(t, gerr.Unwrap())
}

func TestNewInvalidInput(t *testing.T) {
	cause := errors.New("email is required")

	wrapped := NewInvalidInput(cause)
	assert.ErrorIs(t, wrapped, cause)

	odd := NewInvalidInput(nil, "email")
	var gerr *Error
	assert.ErrorAs(t, odd, &gerr)
	assert.Equal(t, CodeInvalidFormat, gerr.Code())

	fields := NewInvalidInput(nil, "email", "must be valid")
	assert.ErrorAs(t, fields, &gerr)
	assert.Equal(t, map[string]string{"email": "must be valid"}, gerr.Fields())
	assert.Equal(t, "ERROR_CODE_INVALID_INPUT", gerr.Code().String())
	assert.Equal(t, "ERROR_TYPE_VALIDATION", gerr.Type().String())
}
