// Package otp wires the one-time code module: in-memory store, usecase, and
// HTTP endpoints.
package otp

import (
	"otpgate/internal/otp/inbound"
	"otpgate/internal/otp/outbound/memstore"
	"otpgate/internal/otp/usecase"
	"otpgate/internal/pkg/clock"
	"otpgate/internal/pkg/codegen"
	"otpgate/internal/pkg/config"
	"otpgate/internal/pkg/goroutine"
	"otpgate/internal/pkg/hash"
	"otpgate/internal/pkg/instrument"
	"otpgate/internal/pkg/router"
	"otpgate/internal/pkg/uid"
	"otpgate/internal/pkg/validator"
)

type Dependency struct {
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Codes      codegen.Generator          `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	store := memstore.New(memstore.Config{
		TTL:    dep.Config.GetSecond("otp.expiry_seconds"),
		Hasher: dep.HMAC,
		Codes:  dep.Codes,
		UID:    dep.UID,
		Clock:  dep.Clock,
	})

	uc := usecase.New(usecase.Dependency{
		Store:      store,
		Validator:  dep.Validator,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
		Goroutine:  dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
