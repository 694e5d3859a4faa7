package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "taskboard", cfg.AppName)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, "postgres://taskboard:@localhost:5432/taskboard?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, "./assets/migrations", cfg.Migrations.Path)
	assert.Equal(t, 10, cfg.Dashboard.DefaultPageSize)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.StatisticTTL)
	assert.Equal(t, time.UTC, cfg.Dashboard.Location())
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("DASHBOARD_LOCALE", "en")
	t.Setenv("DASHBOARD_PAGE_SIZE", "25")
	t.Setenv("SYNC_INTERVAL_SECONDS", "45")
	t.Setenv("DASHBOARD_STATISTIC_TTL", "2m")
	t.Setenv("RUN_MIGRATIONS", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.Database.URL)
	assert.Equal(t, "en", cfg.Dashboard.Locale)
	assert.Equal(t, 25, cfg.Dashboard.DefaultPageSize)
	assert.Equal(t, 45*time.Second, cfg.Buffer.SyncInterval)
	assert.Equal(t, 2*time.Minute, cfg.Dashboard.StatisticTTL)
	assert.False(t, cfg.Migrations.Enabled)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.env")
	require.NoError(t, os.WriteFile(path, []byte("DASHBOARD_TIMEZONE=Europe/Moscow\nSERVER_PORT=9090\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("DASHBOARD_TIMEZONE")
		os.Unsetenv("SERVER_PORT")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "Europe/Moscow", cfg.Dashboard.Location().String())
}

func TestLoadMissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("DASHBOARD_PAGE_SIZE", "0")
	t.Setenv("DASHBOARD_TIMEZONE", "Mars/Olympus")
	t.Setenv("DASHBOARD_TASK_FETCH_LIMIT", "5000")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "DASHBOARD_PAGE_SIZE")
	assert.Contains(t, err.Error(), "DASHBOARD_TIMEZONE")
	assert.Contains(t, err.Error(), "DASHBOARD_TASK_FETCH_LIMIT")
}
