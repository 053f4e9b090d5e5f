package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/mailotp/internal/otp"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.otp.enabled") {
		if err := otp.New(a.ctx, otp.Dependency{
			Store:      a.store,
			Mail:       a.mail,
			Messaging:  a.publisher,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			Clock:      a.clock,
			Generator:  a.generator,
			Validator:  a.validator,
			DBConn:     a.dbConn,
		}); err != nil {
			slog.Error("failed to init module otp", "error", err)
			os.Exit(1)
		}
	}
}
