package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[storage]
driver = "memory"

[auto_release]
grace_minutes = 45
grace_anchor = "reserved_from"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 30, cfg.Scheduling.BufferMinutes, "missing values keep defaults")

	policy := cfg.AutoReleasePolicy()
	assert.Equal(t, 45*time.Minute, policy.GracePeriod)
	assert.Equal(t, domain.GraceFromScheduledStart, policy.Anchor)

	assert.Equal(t, domain.DefaultSchedulingPolicy(), cfg.SchedulingPolicy())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db.internal"
port = 5432
`)
	t.Setenv("DB_HOST", "override.local")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "override.local", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Contains(t, cfg.Database.DSN(), "host=override.local port=6543")
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown driver": "[storage]\ndriver = \"redis\"\n",
		"bad anchor":     "[auto_release]\ngrace_anchor = \"checked_in_at\"\n",
		"bad duration":   "[scheduling]\nmin_duration_minutes = 500\nmax_duration_minutes = 120\n",
		"bad rate limit": "[rate_limit]\nenabled = true\nrequests_per_second = 0\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")

	_, err := Load(writeConfig(t, ""))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
