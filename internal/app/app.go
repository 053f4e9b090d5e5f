package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/mailotp/internal/pkg/clock"
	"github.com/shandysiswandi/mailotp/internal/pkg/config"
	"github.com/shandysiswandi/mailotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/kvstore"
	"github.com/shandysiswandi/mailotp/internal/pkg/mail"
	"github.com/shandysiswandi/mailotp/internal/pkg/messaging"
	"github.com/shandysiswandi/mailotp/internal/pkg/otp"
	"github.com/shandysiswandi/mailotp/internal/pkg/router"
	"github.com/shandysiswandi/mailotp/internal/pkg/uid"
	"github.com/shandysiswandi/mailotp/internal/pkg/validator"
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
	uid       uid.NumberID
	uuid      uid.StringID
	generator otp.Generator

	// resources
	dbConn    *pgxpool.Pool
	store     kvstore.Store
	mail      mail.Mail
	publisher messaging.Publisher

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
	app.initDatabase()
	app.initKVStore()
	app.initMail()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
