package otp

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/mailotp/internal/otp/entity"
	"github.com/shandysiswandi/mailotp/internal/otp/inbound"
	"github.com/shandysiswandi/mailotp/internal/otp/outbound/cache"
	"github.com/shandysiswandi/mailotp/internal/otp/outbound/db"
	"github.com/shandysiswandi/mailotp/internal/otp/outbound/email"
	"github.com/shandysiswandi/mailotp/internal/otp/outbound/mq"
	"github.com/shandysiswandi/mailotp/internal/otp/usecase"
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

type Dependency struct {
	Store      kvstore.Store              `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Generator  otp.Generator              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	// DBConn enables the delivery log when set.
	DBConn *pgxpool.Pool
}

func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument, mq.RetryConfig{
		MaxRetries: uint64(max(dep.Config.GetInt("messaging.retry.max_retries"), 0)),
		BaseDelay:  time.Duration(dep.Config.GetInt("messaging.retry.base_delay_ms")) * time.Millisecond,
	})

	ucDep := usecase.Dependency{
		RepoCache:     cache.New(dep.Store, dep.Instrument),
		RepoEmail:     email.New(dep.Mail, dep.Instrument),
		RepoMessaging: repoMsg,
		Generator:     dep.Generator,
		Validator:     dep.Validator,
		Policy:        PolicyFromConfig(dep.Config),
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	}

	if dep.DBConn != nil {
		dbLog := db.NewDB(dep.DBConn, dep.Instrument)
		if err := dbLog.Migrate(ctx); err != nil {
			return err
		}
		ucDep.RepoDB = dbLog
	}

	uc := usecase.New(ucDep)

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}

// PolicyFromConfig reads modules.otp.*. Missing keys keep the defaults.
func PolicyFromConfig(cfg config.Config) entity.Policy {
	return entity.Policy{
		CodeLength:   cfg.GetInt("modules.otp.code_length"),
		TTL:          cfg.GetSecond("modules.otp.ttl_seconds"),
		MaxPerWindow: int64(cfg.GetInt("modules.otp.max_per_minute")),
		Cooldown:     cfg.GetSecond("modules.otp.cooldown_seconds"),
		MaxAttempts:  int64(cfg.GetInt("modules.otp.max_attempts")),
	}.Or(entity.DefaultPolicy())
}
