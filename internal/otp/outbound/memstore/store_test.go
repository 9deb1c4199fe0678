package memstore

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"otpgate/internal/pkg/clock"
	"otpgate/internal/pkg/codegen"
	"otpgate/internal/pkg/goerror"
	"otpgate/internal/pkg/hash"
	"otpgate/internal/pkg/uid"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()

	snow, err := uid.NewSnowflake()
	if err != nil {
		t.Fatalf("new snowflake: %v", err)
	}

	return New(Config{
		TTL:    ttl,
		Hasher: hash.NewHMACSHA256("store-test-secret"),
		Codes:  codegen.NewNumeric(),
		UID:    snow,
		Clock:  clock.New(),
	})
}

func TestStoreGenerate(t *testing.T) {

	t.Run("ReturnsSixDigitCode", func(t *testing.T) {

		// Arrange
		s := newTestStore(t, time.Minute)

		// Act
		code, err := s.Generate(context.Background(), "user@example.com")

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6-character code, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil || n < 100000 || n > 999999 {
			t.Fatalf("expected numeric code in [100000, 999999], got %q", code)
		}
	})

	t.Run("SecondGenerateConflicts", func(t *testing.T) {

		// Arrange
		s := newTestStore(t, time.Minute)
		if _, err := s.Generate(context.Background(), "k1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Act
		_, err := s.Generate(context.Background(), "k1")

		// Assert
		if !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("KeysAreIsolated", func(t *testing.T) {

		// Arrange
		s := newTestStore(t, time.Minute)
		code1, _ := s.Generate(context.Background(), "k1")
		code2, _ := s.Generate(context.Background(), "k2")

		// Act & Assert
		if s.Verify(context.Background(), "k1", code2) && code1 != code2 {
			t.Fatalf("expected code of k2 not to verify against k1")
		}
		if !s.Verify(context.Background(), "k2", code2) {
			t.Fatalf("expected code of k2 to verify against k2")
		}
	})
}

func TestStoreVerify(t *testing.T) {

	t.Run("MatchConsumesRecord", func(t *testing.T) {

		// Arrange
		s := newTestStore(t, time.Minute)
		code, _ := s.Generate(context.Background(), "user@example.com")

		// Act
		first := s.Verify(context.Background(), "user@example.com", code)
		second := s.Verify(context.Background(), "user@example.com", code)

		// Assert
		if !first {
			t.Fatalf("expected first verification to succeed")
		}
		if second {
			t.Fatalf("expected repeat verification to fail, code is consumed")
		}
	})

	t.Run("WrongGuessConsumesRecord", func(t *testing.T) {

		// Arrange
		s := newTestStore(t, time.Minute)
		code, _ := s.Generate(context.Background(), "k1")
		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		// Act
		guess := s.Verify(context.Background(), "k1", wrong)
		retry := s.Verify(context.Background(), "k1", code)

		// Assert
		if guess {
			t.Fatalf("expected wrong guess to fail")
		}
		if retry {
			t.Fatalf("expected record to be consumed by the wrong guess")
		}
	})

	t.Run("UnknownKeyIsFalse", func(t *testing.T) {

		// Arrange
		s := newTestStore(t, time.Minute)

		// Act & Assert
		if s.Verify(context.Background(), "never-generated", "123456") {
			t.Fatalf("expected verification of unknown key to fail")
		}
	})

	t.Run("AtMostOneSuccessUnderRace", func(t *testing.T) {

		// Arrange
		s := newTestStore(t, time.Minute)
		code, _ := s.Generate(context.Background(), "raced")

		const n = 32
		results := make(chan bool, n)
		var start, done sync.WaitGroup
		start.Add(1)
		done.Add(n)

		for i := 0; i < n; i++ {
			go func() {
				defer done.Done()
				start.Wait()
				results <- s.Verify(context.Background(), "raced", code)
			}()
		}

		// Act
		start.Done()
		done.Wait()
		close(results)

		// Assert
		successes := 0
		for ok := range results {
			if ok {
				successes++
			}
		}
		if successes != 1 {
			t.Fatalf("expected exactly one success, got %d", successes)
		}
	})
}

func TestStoreExpiry(t *testing.T) {

	t.Run("ExpiredCodeFailsAndFreesKey", func(t *testing.T) {

		// Arrange
		s := newTestStore(t, 20*time.Millisecond)
		code, _ := s.Generate(context.Background(), "k1")

		// Act
		time.Sleep(80 * time.Millisecond)

		// Assert
		if s.Verify(context.Background(), "k1", code) {
			t.Fatalf("expected expired code to fail verification")
		}
		if _, err := s.Generate(context.Background(), "k1"); err != nil {
			t.Fatalf("expected key to be free after expiry, got %v", err)
		}
	})

	t.Run("StaleTimerSparesSuccessor", func(t *testing.T) {

		// Arrange
		s := newTestStore(t, 100*time.Millisecond)
		code1, _ := s.Generate(context.Background(), "k1")
		if !s.Verify(context.Background(), "k1", code1) {
			t.Fatalf("expected first code to verify")
		}

		// Re-issue partway through the first issuance's timer window, so the
		// stale timer fires while the successor is still well within its own.
		time.Sleep(60 * time.Millisecond)
		code2, err := s.Generate(context.Background(), "k1")
		if err != nil {
			t.Fatalf("unexpected error re-issuing: %v", err)
		}

		// Act: let the first issuance's timer fire.
		time.Sleep(60 * time.Millisecond)

		// Assert
		if !s.Verify(context.Background(), "k1", code2) {
			t.Fatalf("expected successor code to survive the stale timer")
		}
	})

	t.Run("ExpiryIsCounted", func(t *testing.T) {

		// Arrange
		s := newTestStore(t, 10*time.Millisecond)
		if _, err := s.Generate(context.Background(), "k1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Act
		time.Sleep(60 * time.Millisecond)

		// Assert
		if got := s.Stats().Expired; got != 1 {
			t.Fatalf("expected 1 expired record, got %d", got)
		}
		if got := s.Outstanding(); got != 0 {
			t.Fatalf("expected no outstanding records, got %d", got)
		}
	})
}
