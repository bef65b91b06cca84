package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSystemConfig_Defaults(t *testing.T) {
	cfg := NewSystemConfig()

	assert.Equal(t, 8, cfg.ValidationSvcCfg.MaxConcurrency)
	assert.Equal(t, time.Second, cfg.ValidationSvcCfg.TimeoutGrace)
	assert.Equal(t, "public", cfg.PostgresConfig.Schema)
	assert.Equal(t, 5*time.Minute, cfg.RedisConfig.CacheTTL)
	assert.False(t, cfg.JwtConfig.Enabled())
}

func TestNewSystemConfig_FromEnv(t *testing.T) {
	t.Setenv("VALIDATION_MAX_CONCURRENCY", "3")
	t.Setenv("VALIDATION_PERSIST_RETRY_DELAY_MS", "25")
	t.Setenv("TESTCASE_CACHE_TTL_MS", "0")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SANDBOX_URL", "http://sandbox:1234")
	t.Setenv("DEBUG_MODE", "true")

	cfg := NewSystemConfig()

	assert.True(t, cfg.DebugMode)
	assert.Equal(t, 3, cfg.ValidationSvcCfg.MaxConcurrency)
	assert.Equal(t, 25*time.Millisecond, cfg.ValidationSvcCfg.PersistRetryDelay)
	assert.Equal(t, time.Duration(0), cfg.RedisConfig.CacheTTL)
	assert.Equal(t, 9000, cfg.HttpConfig.Port)
	assert.True(t, cfg.JwtConfig.Enabled())
	assert.Equal(t, "http://sandbox:1234", cfg.ExecutorConfig.SandboxUrl)
}

func TestGetIntEnv_Invalid(t *testing.T) {
	t.Setenv("VALIDATION_PERSIST_WORKERS", "many")
	assert.Equal(t, 2, NewValidationSvcCfg().PersistWorkers)
}
