package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.AdDeleteRefund)
	assert.Equal(t, 20.0, cfg.AuthRateLimit)
	assert.Equal(t, "postgres://postgres:@localhost:5432/workhub?sslmode=disable", cfg.DSN())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE", "memory")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("AD_DELETE_REFUND", "true")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.True(t, cfg.AdDeleteRefund)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DSN())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{Storage: StorageMemory, LogFormat: "json", JWTSecret: "0123456789abcdef", JWTTTL: time.Hour, AuthRateLimit: 1}
	require.NoError(t, base.Validate())

	bad := base
	bad.Storage = "sqlite"
	assert.ErrorContains(t, bad.Validate(), "STORAGE")

	bad = base
	bad.JWTSecret = "short"
	assert.ErrorContains(t, bad.Validate(), "JWT_SECRET")

	bad = base
	bad.LogFormat = "xml"
	assert.ErrorContains(t, bad.Validate(), "LOG_FORMAT")
}

func TestDSNEscapesPassword(t *testing.T) {
	cfg := Config{DBUser: "app", DBPassword: "p@ss/word", DBHost: "db", DBPort: "5432", DBName: "workhub", DBSSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/workhub?sslmode=require", cfg.DSN())
}
