package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all process configuration, sourced from environment variables.
// A local .env file is honored when present so dev setups stay declarative.
type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	RedisURL    string `envconfig:"REDIS_URL" required:"true"`

	// Secret shared with the marketplace auth service that issues the tokens.
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// Read deadline for idle websocket sessions; pongs extend it.
	HeartbeatTimeout time.Duration `envconfig:"HEARTBEAT_TIMEOUT" default:"60s"`

	WorkerConcurrency int `envconfig:"WORKER_CONCURRENCY" default:"10"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads .env (if any) and then the process environment.
func Load() (Config, error) {
	// Missing .env is fine in containerized deployments.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
