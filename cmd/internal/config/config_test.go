package config

import (
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "6060", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.False(t, cfg.HasAdmin())
	assert.False(t, cfg.TrustProxy)
	assert.Equal(t, log.INFO, cfg.Level())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("ADMIN_EMAIL", "root@clinic.test")
	t.Setenv("ADMIN_PASSWORD", "changeme")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.HasAdmin())
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, log.DEBUG, cfg.Level())
}

func TestValidate(t *testing.T) {
	base := Config{JWTSecret: "x", DBDriver: "sqlite", RateLimitRPS: 1, RateLimitBurst: 1}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }},
		{"postgres without dsn", func(c *Config) { c.DBDriver = "postgres" }},
		{"zero burst", func(c *Config) { c.RateLimitBurst = 0 }},
		{"admin email only", func(c *Config) { c.AdminEmail = "a@b.c" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadStorage_NoSecretNeeded(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "host=localhost user=clinic dbname=clinic")

	cfg, err := LoadStorage()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "host=localhost user=clinic dbname=clinic", cfg.DBDSN)
}
