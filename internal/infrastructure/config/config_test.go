package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "homelease-backend", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "homelease", cfg.Database.DBName)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 14, cfg.Billing.GracePeriodDays)
	assert.Equal(t, 4, cfg.Billing.WorkerCount)
	assert.Equal(t, "0 2 * * *", cfg.Scheduler.CronSchedule)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.RunTimeout)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOMELEASE_DATABASE_HOST", "db.internal")
	t.Setenv("HOMELEASE_BILLING_GRACE_PERIOD_DAYS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 7, cfg.Billing.GracePeriodDays)
}

func TestLoad_ProductionRequiresJWTSecret(t *testing.T) {
	t.Setenv("HOMELEASE_APP_ENV", "production")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("HOMELEASE_JWT_SECRET", "super-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "localhost", Port: 5432,
		User: "postgres", Password: "pw",
		DBName: "homelease", SSLMode: "disable",
	}
	assert.Equal(t, "host=localhost port=5432 user=postgres password=pw dbname=homelease sslmode=disable", d.DSN())
	assert.Equal(t, "postgres://postgres:pw@localhost:5432/homelease?sslmode=disable", d.URL())
}
