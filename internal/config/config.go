package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultDotEnv = ".env"

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv               string `env:"APP_ENV" envDefault:"dev"`
	Port                 string `env:"PORT" envDefault:"8080"`
	DBPath               string `env:"DB_PATH" envDefault:"./cabkit.db"`
	LogLevel             string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON              bool   `env:"LOG_JSON" envDefault:"false"`
	DefaultPricingPreset string `env:"DEFAULT_PRICING_PRESET" envDefault:"US_STD"`
}

// Load reads an optional dotenv file and then the environment. Variables
// already present in the environment win over the file. With no arguments
// ./.env is used; a missing file is not an error.
func Load(dotenvPaths ...string) (Config, error) {
	if len(dotenvPaths) == 0 {
		dotenvPaths = []string{defaultDotEnv}
	}
	for _, path := range dotenvPaths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the service runs in a development environment.
func (c Config) IsDev() bool {
	switch c.AppEnv {
	case "dev", "development", "local":
		return true
	}
	return false
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}
