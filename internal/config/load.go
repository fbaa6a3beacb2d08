package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. FEED_SERVER_PORT.
const EnvPrefix = "FEED"

// defaults lists every key with its default so that viper binds the matching
// environment variable even when no config file mentions the key.
var defaults = map[string]any{
	"server.port":              8080,
	"server.log_level":         "info",
	"database.driver":          "postgres",
	"database.url":             "",
	"database.name":            "feed",
	"database.auto_migrate":    true,
	"auth.jwt_secret":          "",
	"storage.backend":          "local",
	"storage.dir":              ".",
	"storage.bucket":           "",
	"storage.credentials_file": "",
	"storage.max_upload_mb":    10,
}

// Load configuration from environment variables and optionally config files.
// A .env file in the working directory is loaded first (existing variables
// win), then config.yaml if present; environment variables take precedence
// over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
