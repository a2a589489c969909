// Package config loads and validates the application configuration from
// environment variables, with sane defaults for local development.
package config

import "fmt"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Broker   BrokerConfig   `mapstructure:"broker"`
	Mail     MailConfig     `mapstructure:"mail"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// SeedUsers enables creation of the default admin/user accounts at
	// startup when they are missing.
	SeedUsers bool `mapstructure:"seed_users"`
}

// DatabaseConfig contains the PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"     validate:"required"`
	Port     int    `mapstructure:"port"     validate:"required,gt=0,lt=65536"`
	User     string `mapstructure:"user"     validate:"required"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"     validate:"required"`
}

// URL assembles the database connection string used by the pgx driver.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// CacheConfig contains the Redis connection settings.
type CacheConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
}

// Addr returns the Redis address in host:port form.
func (c CacheConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BrokerConfig contains the RabbitMQ connection settings.
type BrokerConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// MailConfig contains the SMTP transport settings for notification emails.
type MailConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from" validate:"required,email"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}
