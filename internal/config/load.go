package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envBindings maps each config key to the environment variable that
// overrides it. The variable names match the deployment environment
// (docker-compose, CI) rather than viper's automatic derivation.
var envBindings = map[string]string{
	"server.port":                 "SERVER_PORT",
	"server.log_level":            "LOG_LEVEL",
	"server.seed_users":           "SEED_USERS",
	"database.host":               "DB_HOST",
	"database.port":               "DB_PORT",
	"database.user":               "DB_USER",
	"database.password":           "DB_PASSWORD",
	"database.name":               "DB_NAME",
	"cache.host":                  "REDIS_HOST",
	"cache.port":                  "REDIS_PORT",
	"broker.url":                  "RABBITMQ_URL",
	"mail.host":                   "SMTP_HOST",
	"mail.port":                   "SMTP_PORT",
	"mail.user":                   "SMTP_USER",
	"mail.password":               "SMTP_PASS",
	"mail.from":                   "EMAIL_FROM",
	"auth.jwt_secret":             "JWT_SECRET",
	"auth.token_lifetime_minutes": "TOKEN_LIFETIME_MINUTES",
}

// Load reads configuration from environment variables, applying defaults
// for everything except the JWT secret, and validates the result.
// Environment variables take precedence over defaults.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the development defaults for every setting that
// has one. The JWT secret deliberately has no default.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3333)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.seed_users", true)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "taskboard")

	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", 6379)

	v.SetDefault("broker.url", "amqp://localhost:5672")

	v.SetDefault("mail.host", "smtp.mailtrap.io")
	v.SetDefault("mail.port", 2525)
	v.SetDefault("mail.from", "noreply@arolitec.com")

	v.SetDefault("auth.token_lifetime_minutes", 60)
}
