package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nsqio/go-nsq"
	"github.com/rs/cors"
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
	"google.golang.org/api/option"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.generator = otp.NewNumeric()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake(int64(a.config.GetInt("app.node_id")))
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow
}

// initDatabase connects the delivery log database. It is optional.
func (a *App) initDatabase() {
	if !a.config.GetBool("database.enabled") {
		slog.Info("database disabled, delivery log is off")
		return
	}

	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

func (a *App) initKVStore() {
	driver := a.config.GetString("kvstore.driver")
	store, err := kvstore.NewFromDriver(a.ctx, driver, kvstore.FactoryOptions{
		Redis: kvstore.RedisOptions{
			URL:         a.config.GetString("kvstore.redis.url"),
			PingTimeout: a.config.GetSecond("kvstore.redis.ping_timeout_seconds"),
		},
		Clock: a.clock,
	})
	if err != nil {
		slog.Error("failed to init kvstore", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.store = store
}

func (a *App) initMail() {
	driver := a.config.GetString("mail.driver")
	client, err := mail.NewFromDriver(driver, mail.FactoryOptions{
		SMTP: mail.SMTPConfig{
			Host:     a.config.GetString("mail.smtp.host"),
			Port:     a.config.GetInt("mail.smtp.port"),
			Username: a.config.GetString("mail.smtp.username"),
			Password: a.config.GetString("mail.smtp.password"),
			From:     a.config.GetString("mail.from"),
		},
		SendGrid: mail.SendGridConfig{
			APIKey:   a.config.GetString("mail.sendgrid.api_key"),
			From:     a.config.GetString("mail.from"),
			FromName: a.config.GetString("mail.from_name"),
			Host:     a.config.GetString("mail.sendgrid.host"),
		},
		From: a.config.GetString("mail.from"),
	})
	if err != nil {
		slog.Error("failed to init mail", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.mail = client
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")
	client, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr: a.config.GetString("messaging.nsq.producer_addr"),
			ProducerConfig: func() *nsq.Config {
				cfg := nsq.NewConfig()
				cfg.DialTimeout = a.config.GetSecond("messaging.nsq.producer_config.dial_timeout_seconds")
				cfg.ReadTimeout = a.config.GetSecond("messaging.nsq.producer_config.read_timeout_seconds")
				cfg.WriteTimeout = a.config.GetSecond("messaging.nsq.producer_config.write_timeout_seconds")
				return cfg
			}(),
		},
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
				nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		Kafka: messaging.KafkaConfig{
			Brokers:      a.config.GetArray("messaging.kafka.brokers"),
			BatchTimeout: time.Duration(a.config.GetInt("messaging.kafka.batch_timeout_ms")) * time.Millisecond,
		},
		PubSub: messaging.PubSubConfig{
			ProjectID:   a.config.GetString("messaging.pubsub.project_id"),
			Endpoint:    a.config.GetString("messaging.pubsub.endpoint"),
			WithoutAuth: a.config.GetBool("messaging.pubsub.without_auth"),
			ClientOptions: func() []option.ClientOption {
				var opts []option.ClientOption
				if v := a.config.GetString("messaging.pubsub.credentials_file"); v != "" {
					opts = append(opts, option.WithCredentialsFile(v))
				}
				if v := a.config.GetString("messaging.pubsub.user_agent"); v != "" {
					opts = append(opts, option.WithUserAgent(v))
				}
				return opts
			}(),
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.publisher = client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})
	a.router.GET("/health", a.health)

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.publisher.Close()
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "KVStore",
			fn: func(context.Context) error {
				return a.store.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				if a.dbConn != nil {
					a.dbConn.Close()
				}

				return nil
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
