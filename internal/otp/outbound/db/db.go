package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shandysiswandi/mailotp/internal/otp/entity"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrDuplicate is returned when a row with the same id already exists.
var ErrDuplicate = errors.New("otp db: duplicate row")

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type DB struct {
	conn Querier
	ins  instrument.Instrumentation
}

func NewDB(conn Querier, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

const schema = `
CREATE TABLE IF NOT EXISTS otp_delivery_logs (
	id             BIGINT PRIMARY KEY,
	email          TEXT        NOT NULL,
	reused         BOOLEAN     NOT NULL DEFAULT FALSE,
	status         TEXT        NOT NULL,
	provider_error TEXT        NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS otp_delivery_logs_email_created_at_idx
	ON otp_delivery_logs (email, created_at DESC);
`

// 23505 unique_violation is the only code callers act on.
func (s *DB) mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Migrate creates the delivery log table if needed.
func (s *DB) Migrate(ctx context.Context) (err error) {
	ctx, span := s.startSpan(ctx, "Migrate")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, schema)
	return err
}

func (s *DB) CreateDeliveryLog(ctx context.Context, in entity.DeliveryLog) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDeliveryLog")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO otp_delivery_logs (id, email, reused, status, provider_error, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		in.ID, in.Email, in.Reused, string(in.Status), in.ProviderError, in.CreatedAt,
	)
	return s.mapError(err)
}

// ListDeliveryLogs returns the newest rows for email, newest first.
func (s *DB) ListDeliveryLogs(ctx context.Context, email string, limit int) (out []entity.DeliveryLog, err error) {
	ctx, span := s.startSpan(ctx, "ListDeliveryLogs")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx,
		`SELECT id, email, reused, status, provider_error, created_at
		 FROM otp_delivery_logs WHERE email = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		email, limit,
	)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.DeliveryLog, error) {
		var (
			l      entity.DeliveryLog
			status string
		)
		err := row.Scan(&l.ID, &l.Email, &l.Reused, &status, &l.ProviderError, &l.CreatedAt)
		l.Status = entity.DeliveryStatus(status)
		return l, err
	})
}
