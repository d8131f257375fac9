package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env is the process configuration taken from the environment. Command line
// flags override it.
type Env struct {
	DataDir       string        `env:"SIRSIM_DATA_DIR" envDefault:".sirsim"`
	Store         string        `env:"SIRSIM_STORE" envDefault:"file"`
	RedisAddr     string        `env:"SIRSIM_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"SIRSIM_REDIS_PASSWORD"`
	RedisDB       int           `env:"SIRSIM_REDIS_DB" envDefault:"0"`
	RedisTTL      time.Duration `env:"SIRSIM_REDIS_TTL" envDefault:"0s"`
	MetricsFile   string        `env:"SIRSIM_METRICS_FILE"`
	LogLevel      string        `env:"SIRSIM_LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"SIRSIM_LOG_FORMAT" envDefault:"text"`
}

// ParseEnv loads Env from environment variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
