package config

import "os"

// JwtConfig enables bearer token identity when Secret is set
type JwtConfig struct {
	Secret string
}

func NewJwtConfig() *JwtConfig {
	return &JwtConfig{
		Secret: os.Getenv("JWT_SECRET"),
	}
}

func (c *JwtConfig) Enabled() bool {
	return c.Secret != ""
}
