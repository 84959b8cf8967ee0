package config

import (
	"testing"
	"time"

	"batani-inventory/pkg/database"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DATABASE_URL", "SQLITE_PATH", "LOCK_TTL_SECONDS", "REDIS_DB", "TIMEZONE"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":3000", cfg.Address())
	assert.Equal(t, database.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 10*time.Second, cfg.LockTTL)
	assert.Equal(t, time.Local, cfg.Location)

	opts := cfg.Database()
	assert.Equal(t, "inventory.db", opts.DSN)
}

func TestFromEnvBuildsPostgresDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "PostgreSQL")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "inventory")
	t.Setenv("DB_PORT", "")

	cfg := FromEnv()
	assert.Equal(t, database.DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "host=db user=app password=pw dbname=inventory port=5432 sslmode=disable", cfg.Database().DSN)
}

func TestFromEnvFallsBackOnBadValues(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	t.Setenv("LOCK_TTL_SECONDS", "-3")
	t.Setenv("REDIS_DB", "x")
	t.Setenv("TIMEZONE", "Mars/Olympus")

	cfg := FromEnv()
	assert.Equal(t, database.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 10*time.Second, cfg.LockTTL)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, time.Local, cfg.Location)
}
