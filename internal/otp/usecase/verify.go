package usecase

import (
	"context"
	"log/slog"

	"otpgate/internal/pkg/goerror"
)

type VerifyInput struct {
	Key  string `validate:"required,max=255"`
	Code string `validate:"required"`
}

type VerifyOutput struct {
	Valid bool
}

// Verify checks a candidate code against the key's outstanding record.
//
// Wrong code, expired code, and unknown key all come back as Valid=false with
// no further distinction, so callers cannot probe which keys exist.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	valid := s.store.Verify(ctx, in.Key, in.Code)

	if valid {
		if s.verifiedCounter != nil {
			s.verifiedCounter.Add(ctx, 1)
		}
		slog.InfoContext(ctx, "otp verified", "key", in.Key)
	} else {
		if s.rejectedCounter != nil {
			s.rejectedCounter.Add(ctx, 1)
		}
		slog.InfoContext(ctx, "otp rejected", "key", in.Key)
	}

	return &VerifyOutput{Valid: valid}, nil
}
