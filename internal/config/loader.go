package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var envPaths = []string{
	".env",
	"../.env",
}

// Load builds the configuration from defaults, .env, an optional YAML
// file and the environment, then validates it.
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	loadDotEnv()

	if path := discoverConfigFile(configPath); path != "" {
		if err := loadYAMLFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv loads the first .env file found. godotenv never overrides
// variables that are already set.
func loadDotEnv() {
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			return
		}
	}
}

func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv("ENGINEERS_CONFIG"); envPath != "" {
		return envPath
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}

// loadYAMLFile parses path into cfg. Fields absent from the file keep
// their current values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) error {
	var errs []error

	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}

	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Storage.SQLite.Path = v
	}
	if v := os.Getenv("MONGO_URL"); v != "" {
		cfg.Storage.Mongo.URI = v
		// A Mongo URL alone selects the Mongo store.
		if os.Getenv("STORAGE_DRIVER") == "" {
			cfg.Storage.Driver = DriverMongo
		}
	}
	if v := os.Getenv("MONGO_DATABASE"); v != "" {
		cfg.Storage.Mongo.Database = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid BCRYPT_COST: %w", err))
		} else {
			cfg.Auth.BcryptCost = cost
		}
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid TOKEN_TTL: %w", err))
		} else {
			cfg.Auth.TokenTTL = ttl
		}
	}

	if v := os.Getenv("ENFORCE_OWNERSHIP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid ENFORCE_OWNERSHIP: %w", err))
		} else {
			cfg.Engineers.EnforceOwnership = b
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid METRICS_ENABLED: %w", err))
		} else {
			cfg.Metrics.Enabled = b
		}
	}

	return errors.Join(errs...)
}
