package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestHandler_MasksConfiguredKeys(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "mailotp", nil, []string{"OTP", " code "}, "info"))

	logger.Info("otp issued",
		"email", "a@b.com",
		"otp", "123456",
		"body", `{"email":"a@b.com","code":"000042"}`,
		slog.Group("req", slog.String("code", "999999")),
	)

	line := decodeLine(t, buf)
	assert.Equal(t, "***", line["otp"])
	assert.Equal(t, "a@b.com", line["email"])
	assert.JSONEq(t, `{"email":"a@b.com","code":"***"}`, line["body"].(string))
	assert.Equal(t, map[string]any{"code": "***"}, line["req"])
	assert.Equal(t, "mailotp", line["service"])
	assert.Equal(t, "INFO", line["severity"])
	assert.Contains(t, line, "ts")
}

func TestHandler_CorrelationID(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "mailotp", nil, nil, ""))

	ctx := SetCorrelationID(context.Background(), "cid-1")
	logger.InfoContext(ctx, "hello")

	line := decodeLine(t, buf)
	assert.Equal(t, "cid-1", line["_cID"])
}

func TestHandler_Level(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "mailotp", nil, nil, "warn"))

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestHandler_WithAttrsMasked(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "mailotp", nil, []string{"otp"}, "info")).With("otp", "123456")

	logger.Info("with attrs")

	line := decodeLine(t, buf)
	assert.Equal(t, "***", line["otp"])
}

func TestCorrelationID_Empty(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestNew_Disabled(t *testing.T) {
	ins, err := New(context.Background(), &Config{Enabled: false, ServiceName: "mailotp"})
	require.NoError(t, err)

	_, span := ins.Tracer("test").Start(context.Background(), "noop")
	span.End()
	assert.NoError(t, ins.Shutdown(context.Background()))
}
