package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 80*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenExpiration)
	assert.Equal(t, 14*24*time.Hour, cfg.RefreshTokenExpiration)
	assert.Equal(t, "authhub", cfg.JWTIssuer)
	assert.True(t, cfg.RateLimitEnabled)
	assert.False(t, cfg.RateLimitFailClosed)
	assert.False(t, cfg.RevocationFailOpenReads)
	assert.Equal(t, "authhub", cfg.MetricsNamespace)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("RATE_LIMIT_FAIL_CLOSED", "true")
	t.Setenv("REVOCATION_FAIL_OPEN_READS", "true")
	t.Setenv("STORE_TIMEOUT_MS", "50")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.True(t, cfg.RateLimitFailClosed)
	assert.True(t, cfg.RevocationFailOpenReads)
	assert.Equal(t, 50*time.Millisecond, cfg.StoreTimeout)
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		want     string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, cfg.GetGinMode())
		})
	}
}
