package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "server:\n  port: 9090\n"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Notifications.RefreshInterval)
	assert.Equal(t, time.Minute, cfg.Agenda.TickInterval)
	assert.Equal(t, "Dra. Ana Letícia", cfg.Clinic.Dentists[0])
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())
	assert.True(t, cfg.Demo())
}

func TestLoadConfigFileValues(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
database:
  url: postgres://odonto@localhost/odonto?sslmode=disable
notifications:
  refresh_interval: 10s
clinic:
  dentists: ["Dr. Carlos Silva"]
  timezone: UTC
`))
	require.NoError(t, err)

	assert.False(t, cfg.Demo())
	assert.Equal(t, 10*time.Second, cfg.Notifications.RefreshInterval)
	assert.Equal(t, []string{"Dr. Carlos Silva"}, cfg.Clinic.Dentists)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ODONTO_PORT", "7070")
	t.Setenv("ODONTO_DATABASE_URL", "postgres://env@db/odonto")
	t.Setenv("ODONTO_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(writeConfig(t, "server:\n  port: 9090\n"))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "postgres://env@db/odonto", cfg.Database.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "clinic:\n  timezone: Mars/Olympus\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clinic.timezone")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
