package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libconfig "chargenet/backend/libs/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(libconfig.DefaultPathEnv, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8090", cfg.HTTPAddress())
	assert.Equal(t, 60*time.Second, cfg.Commands.Timeout)
	assert.Equal(t, 50, cfg.Status.HistorySize)
	assert.Equal(t, 24*time.Hour, cfg.ActiveSessionTTL())
	assert.True(t, cfg.Events.Enabled)
	assert.Empty(t, cfg.JWT.Secret)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roaming.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: ":9000"
commands:
  timeout: 5s
redis:
  addr: localhost:6379
  ttlSeconds: 60
seed:
  file: seed.yaml
`), 0o600))
	t.Setenv(libconfig.DefaultPathEnv, path)
	t.Setenv("ROAMING_COMMAND_TIMEOUT", "10")
	t.Setenv("ROAMING_JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTPAddress())
	assert.Equal(t, 10*time.Second, cfg.Commands.Timeout)
	assert.Equal(t, time.Minute, cfg.ActiveSessionTTL())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "seed.yaml", cfg.Seed.File)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv(libconfig.DefaultPathEnv, "")
	t.Setenv("ROAMING_STATUS_HISTORY_SIZE", "0")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("ROAMING_STATUS_HISTORY_SIZE", "5")
	t.Setenv("ROAMING_MQTT_QOS", "3")
	_, err = Load()
	assert.Error(t, err)
}
