package config

import (
	"time"
)

type ValidationSvcCfg struct {
	// MaxConcurrency bounds executor calls in flight across all requests
	MaxConcurrency int
	// TimeoutGrace is added to a test case timeout before the call is abandoned
	TimeoutGrace time.Duration
	// PersistRetryDelay is the wait before the single persistence retry
	PersistRetryDelay time.Duration
	PersistWorkers    int
	PersistQueueSize  int
}

func NewValidationSvcCfg() *ValidationSvcCfg {
	return &ValidationSvcCfg{
		MaxConcurrency:    getIntEnv("VALIDATION_MAX_CONCURRENCY", 8),
		TimeoutGrace:      getDurationEnv("VALIDATION_TIMEOUT_GRACE_MS", time.Second),
		PersistRetryDelay: getDurationEnv("VALIDATION_PERSIST_RETRY_DELAY_MS", 500*time.Millisecond),
		PersistWorkers:    getIntEnv("VALIDATION_PERSIST_WORKERS", 2),
		PersistQueueSize:  getIntEnv("VALIDATION_PERSIST_QUEUE_SIZE", 128),
	}
}

type ExecutorConfig struct {
	SandboxUrl string
	Token      string
	// RequestTimeout caps a single HTTP call regardless of the test case timeout
	RequestTimeout time.Duration
}

func NewExecutorConfig() *ExecutorConfig {
	return &ExecutorConfig{
		SandboxUrl:     getEnv("SANDBOX_URL", "http://localhost:8090"),
		Token:          getEnv("SANDBOX_TOKEN", ""),
		RequestTimeout: getDurationEnv("SANDBOX_REQUEST_TIMEOUT_MS", 60*time.Second),
	}
}

type HttpConfig struct {
	Port        int
	ServiceName string
}

func NewHttpConfig() *HttpConfig {
	return &HttpConfig{
		Port:        getIntEnv("HTTP_PORT", 8082),
		ServiceName: getEnv("SERVICE_NAME", "answerValidator"),
	}
}
