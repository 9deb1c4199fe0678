package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"otpgate/internal/pkg/goerror"
)

type GenerateInput struct {
	Key string `validate:"required,max=255"`
}

type GenerateOutput struct {
	Code      string
	ExpiresIn time.Duration
}

// Generate issues a one-time code for the key.
//
// A key with an outstanding code is rejected with a conflict; the caller
// should verify the existing code or wait for it to expire.
func (s *Usecase) Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error) {
	ctx, span := s.startSpan(ctx, "Generate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	code, err := s.store.Generate(ctx, in.Key)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "otp already outstanding", "key", in.Key)
		return nil, goerror.NewBusiness("an active code already exists for this key", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue otp", "key", in.Key, "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.issuedCounter != nil {
		s.issuedCounter.Add(ctx, 1)
	}

	s.goroutine.Go(ctx, func(ctx context.Context) error {
		slog.InfoContext(ctx, "otp issued", "key", in.Key, "expires_in", s.store.TTL().String())
		return nil
	})

	return &GenerateOutput{
		Code:      code,
		ExpiresIn: s.store.TTL(),
	}, nil
}
