package config

import "time"

type RedisConfig struct {
	DB       int
	Url      string
	Password string
	// CacheTTL bounds how long active test cases stay cached. Zero disables the cache.
	CacheTTL time.Duration
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		DB:       getIntEnv("REDIS_DB", 0),
		Url:      getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		CacheTTL: getDurationEnv("TESTCASE_CACHE_TTL_MS", 5*time.Minute),
	}
}
