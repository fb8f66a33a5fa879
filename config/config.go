package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the service reads from the environment. It is
// built once in main and passed by reference; nothing reads ambient env
// state after startup.
type Config struct {
	Env              string `env:"ENV" envDefault:"development"`
	Port             string `env:"PORT" envDefault:"8080"`
	DBURL            string `env:"DB_URL,required,notEmpty"`
	JWTSecret        string `env:"JWT_SECRET,required,notEmpty"`
	JWTAlgorithm     string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	AccessExpiryMin  int    `env:"ACCESS_TOKEN_EXPIRY" envDefault:"15"`
	RefreshExpiryMin int    `env:"REFRESH_TOKEN_EXPIRY" envDefault:"10080"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
