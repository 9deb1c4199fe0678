// Package usecase implements the otp module's operations on top of the store.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"otpgate/internal/otp/entity"
	"otpgate/internal/pkg/clock"
	"otpgate/internal/pkg/goroutine"
	"otpgate/internal/pkg/instrument"
	"otpgate/internal/pkg/validator"
)

type store interface {
	Generate(ctx context.Context, key string) (string, error)
	Verify(ctx context.Context, key, candidate string) bool
	TTL() time.Duration
	Outstanding() int
	Stats() entity.Stats
}

// Usecase exposes the Generate and Verify operations.
type Usecase struct {
	store     store
	validator validator.Validator
	clock     clock.Clocker
	ins       instrument.Instrumentation
	goroutine *goroutine.Manager

	issuedCounter   metric.Int64Counter
	verifiedCounter metric.Int64Counter
	rejectedCounter metric.Int64Counter
}

// Dependency carries the collaborators a Usecase needs.
type Dependency struct {
	Store      store
	Validator  validator.Validator
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
	Goroutine  *goroutine.Manager
}

// New constructs a Usecase and registers its metrics.
func New(dep Dependency) *Usecase {
	uc := &Usecase{
		store:     dep.Store,
		validator: dep.Validator,
		clock:     dep.Clock,
		ins:       dep.Instrument,
		goroutine: dep.Goroutine,
	}

	meter := dep.Instrument.Meter("otp.usecase")

	var err error
	if uc.issuedCounter, err = meter.Int64Counter("otp.issued", metric.WithDescription("Number of one-time codes issued")); err != nil {
		slog.Error("failed to create otp issued counter", "error", err)
	}
	if uc.verifiedCounter, err = meter.Int64Counter("otp.verified", metric.WithDescription("Number of successful verifications")); err != nil {
		slog.Error("failed to create otp verified counter", "error", err)
	}
	if uc.rejectedCounter, err = meter.Int64Counter("otp.rejected", metric.WithDescription("Number of failed verifications")); err != nil {
		slog.Error("failed to create otp rejected counter", "error", err)
	}

	if _, err = meter.Int64ObservableGauge("otp.outstanding",
		metric.WithDescription("Number of currently valid one-time codes"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(dep.Store.Outstanding()))
			return nil
		}),
	); err != nil {
		slog.Error("failed to create otp outstanding gauge", "error", err)
	}

	if _, err = meter.Int64ObservableCounter("otp.expired",
		metric.WithDescription("Number of one-time codes that expired unverified"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(dep.Store.Stats().Expired)
			return nil
		}),
	); err != nil {
		slog.Error("failed to create otp expired counter", "error", err)
	}

	return uc
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}
