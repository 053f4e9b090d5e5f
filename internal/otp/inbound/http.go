package inbound

import (
	"context"

	"github.com/shandysiswandi/mailotp/internal/otp/usecase"
	"github.com/shandysiswandi/mailotp/internal/pkg/router"
)

type uc interface {
	RequestOTP(ctx context.Context, in usecase.RequestOTPInput) (*usecase.RequestOTPOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/otp/send", end.RequestOTP)
	r.POST("/api/v1/otp/verify", end.SubmitOTP)
}
