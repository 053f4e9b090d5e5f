package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  name: mailotp
  server:
    cors: "http://a.test, ,http://b.test"
modules:
  otp:
    enabled: true
    ttl_seconds: 300
    cooldown_seconds: 30
    code_length: 6
instrument:
  trace_sample_ratio: 0.25
  log_mask_fields:
    - otp
    - code
mail:
  sendgrid:
    api_key_b64: "c2VjcmV0"
`

func TestNewViperFromBytes(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "mailotp", cfg.GetString("app.name"))
	assert.True(t, cfg.GetBool("modules.otp.enabled"))
	assert.Equal(t, 300*time.Second, cfg.GetSecond("modules.otp.ttl_seconds"))
	assert.Equal(t, 30*time.Minute, cfg.GetMinute("modules.otp.cooldown_seconds"))
	assert.Equal(t, 6, cfg.GetInt("modules.otp.code_length"))
	assert.Equal(t, int32(6), cfg.GetInt32("modules.otp.code_length"))
	assert.Equal(t, uint16(6), cfg.GetUint16("modules.otp.code_length"))
	assert.InDelta(t, 0.25, cfg.GetFloat64("instrument.trace_sample_ratio"), 1e-9)
	assert.Equal(t, []byte("secret"), cfg.GetBinary("mail.sendgrid.api_key_b64"))
	assert.Nil(t, cfg.GetBinary("app.name"))
	assert.NoError(t, cfg.Close())
}

func TestViper_GetArray(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.GetArray("app.server.cors"))
	assert.Equal(t, []string{"otp", "code"}, cfg.GetArray("instrument.log_mask_fields"))
	assert.Empty(t, cfg.GetArray("missing.key"))
}

func TestNewViperFromBytes_RequiresType(t *testing.T) {
	_, err := NewViperFromBytes(" ", []byte(sampleYAML))
	assert.ErrorIs(t, err, ErrConfigTypeRequired)
}

func TestNewViper(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(sampleYAML), 0o600))

	cfg, err := NewViper(file)
	require.NoError(t, err)

	assert.Equal(t, "mailotp", cfg.GetString("app.name"))
}

func TestNewViper_MissingFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
