// Package inbound exposes the otp module over HTTP.
package inbound

import (
	"context"

	"otpgate/internal/otp/usecase"
	"otpgate/internal/pkg/router"
)

type uc interface {
	Generate(ctx context.Context, in usecase.GenerateInput) (*usecase.GenerateOutput, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/otp/generate", end.Generate)
	r.POST("/api/v1/otp/verify", end.Verify)
}
