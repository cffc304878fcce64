package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "ledgerly-backend", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "ledgerly", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, int64(10<<20), cfg.HTTP.MaxBodySize)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins, "no wildcard CORS fallback")
	assert.Equal(t, 30*time.Second, cfg.Proxy.Timeout)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	require.NoError(t, cfg.validate())

	t.Run("pool settings", func(t *testing.T) {
		bad := *cfg
		bad.Database.MaxIdleConns = bad.Database.MaxOpenConns + 1
		assert.Error(t, bad.validate())
	})

	t.Run("production requires secrets", func(t *testing.T) {
		prod := *cfg
		prod.App.Env = "production"
		assert.Error(t, prod.validate())

		prod.JWT.Secret = "0123456789abcdef0123456789abcdef"
		prod.Database.Password = "s3cret"
		prod.Database.SSLMode = "require"
		assert.NoError(t, prod.validate())
	})

	t.Run("production rejects wildcard CORS", func(t *testing.T) {
		prod := *cfg
		prod.App.Env = "production"
		prod.JWT.Secret = "0123456789abcdef0123456789abcdef"
		prod.Database.Password = "s3cret"
		prod.Database.SSLMode = "require"
		prod.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, prod.validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "app",
		Password: "p@ss/word",
		DBName:   "ledgerly",
		SSLMode:  "require",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss/word", "password must be escaped")
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
