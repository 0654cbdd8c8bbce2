package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds application level configuration loaded from environment
// variables. It is built once at startup and never mutated afterwards.
type Config struct {
	ServerPort      string `env:"PORT" envDefault:"5001"`
	Environment     string `env:"NODE_ENV" envDefault:"development"`
	MongoURI        string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB         string `env:"MONGO_DB" envDefault:"harlos"`
	JWTSecret       string `env:"JWT_SECRET_KEY" envDefault:"change-me"`
	StreamAPIKey    string `env:"STREAM_API_KEY"`
	StreamAPISecret string `env:"STREAM_API_SECRET"`
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass       string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	FrontendOrigin  string `env:"FRONTEND_ORIGIN" envDefault:"http://localhost:5173"`
	SwaggerHost     string `env:"SWAGGER_HOST"`
}

// Load parses Config from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production hardening
// (secure cookies) enabled.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
