package config

import "os"

type AppConfig struct {
	DebugMode        bool
	ValidationSvcCfg *ValidationSvcCfg
	ExecutorConfig   *ExecutorConfig
	HttpConfig       *HttpConfig
	RedisConfig      *RedisConfig
	PostgresConfig   *PostgresConfig
	JwtConfig        *JwtConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:        os.Getenv("DEBUG_MODE") == "true",
		ValidationSvcCfg: NewValidationSvcCfg(),
		ExecutorConfig:   NewExecutorConfig(),
		HttpConfig:       NewHttpConfig(),
		RedisConfig:      NewRedisConfig(),
		PostgresConfig:   NewPostgresConfig(),
		JwtConfig:        NewJwtConfig(),
	}
}
