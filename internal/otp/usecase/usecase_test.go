package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"otpgate/internal/otp/outbound/memstore"
	"otpgate/internal/pkg/clock"
	"otpgate/internal/pkg/codegen"
	"otpgate/internal/pkg/goerror"
	"otpgate/internal/pkg/goroutine"
	"otpgate/internal/pkg/hash"
	"otpgate/internal/pkg/instrument"
	"otpgate/internal/pkg/uid"
	"otpgate/internal/pkg/validator"
)

func newTestUsecase(t *testing.T, ttl time.Duration) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	snow, err := uid.NewSnowflake()
	if err != nil {
		t.Fatalf("new snowflake: %v", err)
	}

	store := memstore.New(memstore.Config{
		TTL:    ttl,
		Hasher: hash.NewHMACSHA256("test-secret"),
		Codes:  codegen.NewNumeric(),
		UID:    snow,
		Clock:  clock.New(),
	})

	return New(Dependency{
		Store:      store,
		Validator:  v,
		Clock:      clock.New(),
		Instrument: instrument.NewNoop(),
		Goroutine:  goroutine.NewManager(10),
	})
}

func TestUsecaseGenerate(t *testing.T) {

	t.Run("IssuesCodeWithExpiry", func(t *testing.T) {

		// Arrange
		uc := newTestUsecase(t, 30*time.Second)

		// Act
		out, err := uc.Generate(context.Background(), GenerateInput{Key: "user-1"})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(out.Code) != 6 {
			t.Fatalf("expected 6-digit code, got %q", out.Code)
		}
		if out.ExpiresIn != 30*time.Second {
			t.Fatalf("expected 30s expiry, got %v", out.ExpiresIn)
		}
	})

	t.Run("DuplicateKeyIsBusinessConflict", func(t *testing.T) {

		// Arrange
		uc := newTestUsecase(t, 30*time.Second)
		if _, err := uc.Generate(context.Background(), GenerateInput{Key: "user-1"}); err != nil {
			t.Fatalf("first generate: %v", err)
		}

		// Act
		_, err := uc.Generate(context.Background(), GenerateInput{Key: "user-1"})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) {
			t.Fatalf("expected goerror.Error, got %v", err)
		}
		if gerr.StatusCode() != 409 {
			t.Fatalf("expected conflict status 409, got %d", gerr.StatusCode())
		}
	})

	t.Run("EmptyKeyIsValidationError", func(t *testing.T) {

		// Arrange
		uc := newTestUsecase(t, 30*time.Second)

		// Act
		_, err := uc.Generate(context.Background(), GenerateInput{Key: ""})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) {
			t.Fatalf("expected goerror.Error, got %v", err)
		}
		if gerr.StatusCode() != 422 {
			t.Fatalf("expected status 422, got %d", gerr.StatusCode())
		}
	})
}

func TestUsecaseVerify(t *testing.T) {

	t.Run("MatchThenConsumed", func(t *testing.T) {

		// Arrange
		uc := newTestUsecase(t, 30*time.Second)
		out, err := uc.Generate(context.Background(), GenerateInput{Key: "user-1"})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		// Act
		first, err1 := uc.Verify(context.Background(), VerifyInput{Key: "user-1", Code: out.Code})
		second, err2 := uc.Verify(context.Background(), VerifyInput{Key: "user-1", Code: out.Code})

		// Assert
		if err1 != nil || err2 != nil {
			t.Fatalf("expected no errors, got %v, %v", err1, err2)
		}
		if !first.Valid {
			t.Fatalf("expected first verify to succeed")
		}
		if second.Valid {
			t.Fatalf("expected second verify to fail, record was consumed")
		}
	})

	t.Run("UnknownKeyIsInvalidNotError", func(t *testing.T) {

		// Arrange
		uc := newTestUsecase(t, 30*time.Second)

		// Act
		out, err := uc.Verify(context.Background(), VerifyInput{Key: "ghost", Code: "123456"})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Valid {
			t.Fatalf("expected invalid result for unknown key")
		}
	})

	t.Run("MissingCodeIsValidationError", func(t *testing.T) {

		// Arrange
		uc := newTestUsecase(t, 30*time.Second)

		// Act
		_, err := uc.Verify(context.Background(), VerifyInput{Key: "user-1", Code: ""})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) {
			t.Fatalf("expected goerror.Error, got %v", err)
		}
	})

	t.Run("ExpiredCodeIsInvalid", func(t *testing.T) {

		// Arrange
		uc := newTestUsecase(t, 20*time.Millisecond)
		out, err := uc.Generate(context.Background(), GenerateInput{Key: "user-1"})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		time.Sleep(80 * time.Millisecond)

		// Act
		res, err := uc.Verify(context.Background(), VerifyInput{Key: "user-1", Code: out.Code})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Valid {
			t.Fatalf("expected expired code to be invalid")
		}
	})
}
