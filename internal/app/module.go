package app

import (
	"log/slog"
	"os"

	"otpgate/internal/otp"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.otp.enabled") {
		if err := otp.New(otp.Dependency{
			Config:     a.config,
			Instrument: a.ins,
			Router:     a.router,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Clock:      a.clock,
			HMAC:       a.hmac,
			UID:        a.uid,
			Codes:      a.codes,
		}); err != nil {
			slog.Error("failed to init module otp", "error", err)
			os.Exit(1)
		}
	}
}
