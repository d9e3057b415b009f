package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// ReadTimeoutSeconds and WriteTimeoutSeconds bound how long a single
	// request may occupy a connection.
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds"  validate:"gte=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"gte=0"`
}

// DatabaseConfig contains all relational store related settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`

	// MaxOpenConns caps the connection pool size. Zero means the
	// database/sql default (unlimited).
	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=0"`

	// ConnectTimeoutSeconds bounds the initial connectivity check at startup.
	ConnectTimeoutSeconds int `mapstructure:"connect_timeout_seconds" validate:"gte=0"`
}

// RedisConfig contains the cache backend settings. The URL may be empty, in
// which case caching is disabled and every read goes to the relational store.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// AuthConfig contains all authentication and token settings.
type AuthConfig struct {
	// JWTSecret is the HMAC signing key for both access and refresh tokens.
	// Must be at least 32 characters to provide adequate entropy.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// AccessTokenLifetimeMinutes is the validity window of access tokens.
	AccessTokenLifetimeMinutes int `mapstructure:"access_token_lifetime_minutes" validate:"required,gt=0"`

	// RefreshTokenLifetimeMinutes is the validity window of refresh tokens.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`

	// BcryptCost is the adaptive hashing cost factor for password storage.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=10,lte=31"`
}

// CacheConfig contains tunables for the task query cache.
type CacheConfig struct {
	// TTLSeconds is how long a cached task page stays valid when no
	// invalidating write occurs.
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"gte=0"`
}

// TaskCacheTTL returns the configured cache entry lifetime as a duration.
func (c CacheConfig) TaskCacheTTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// AccessTokenLifetime returns the access token validity window as a duration.
func (c AuthConfig) AccessTokenLifetime() time.Duration {
	return time.Duration(c.AccessTokenLifetimeMinutes) * time.Minute
}

// RefreshTokenLifetime returns the refresh token validity window as a duration.
func (c AuthConfig) RefreshTokenLifetime() time.Duration {
	return time.Duration(c.RefreshTokenLifetimeMinutes) * time.Minute
}
