package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearDBEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_DATABASE_URL", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER",
		"POSTGRES_PASSWORD", "POSTGRES_DB_NAME", "POSTGRES_SSLMODE",
	} {
		t.Setenv(key, "")
	}
}

func TestDatabaseDSN_PrefersURL(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("APP_DATABASE_URL", `"postgres://u:p@db:5432/waitlist"`)
	t.Setenv("POSTGRES_HOST", "ignored")

	dsn, err := DatabaseDSN(DBConfig{})

	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/waitlist", dsn)
	assert.True(t, IsDatabaseConfigured())
}

func TestDatabaseDSN_FromDiscreteSettings(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "waitlist")
	t.Setenv("POSTGRES_PASSWORD", "'secret'")
	t.Setenv("POSTGRES_DB_NAME", "sessions")

	dsn, err := DatabaseDSN(DBConfig{})

	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=waitlist password=secret dbname=sessions sslmode=require", dsn)

	t.Setenv("POSTGRES_SSLMODE", "disable")
	dsn, err = DatabaseDSN(DBConfig{})
	require.NoError(t, err)
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestDatabaseDSN_ReportsMissingAndInvalidSettings(t *testing.T) {
	clearDBEnv(t)
	assert.False(t, IsDatabaseConfigured())

	_, err := DatabaseDSN(DBConfig{})
	require.Error(t, err)
	assert.Equal(t, "missing database settings: POSTGRES_DB_NAME, POSTGRES_HOST, POSTGRES_USER", err.Error())

	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "waitlist")
	t.Setenv("POSTGRES_DB_NAME", "sessions")
	t.Setenv("POSTGRES_PORT", "fivefour")
	_, err = DatabaseDSN(DBConfig{})
	assert.EqualError(t, err, `invalid POSTGRES_PORT "fivefour"`)
}

func TestDBConfig_WithDefaults(t *testing.T) {
	cfg := DBConfig{MaxOpenConns: 3}.withDefaults()

	assert.Equal(t, 3, cfg.MaxOpenConns)
	assert.Equal(t, 2, cfg.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
	assert.Equal(t, "require", cfg.SSLMode)
}
