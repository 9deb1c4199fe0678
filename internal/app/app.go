// Package app wires dependencies and manages the service lifecycle.
package app

import (
	"context"
	"net/http"

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

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	uuid      uid.StringID
	uid       uid.NumberID
	codes     codegen.Generator

	// server
	router     *router.Router
	httpServer *http.Server

	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
