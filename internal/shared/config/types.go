package config

import (
	"fmt"
	"time"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	// LockWaitTimeoutSeconds bounds how long a transaction waits for a row
	// lock before failing with a retryable lock timeout.
	LockWaitTimeoutSeconds int `mapstructure:"lock_wait_timeout_seconds"`
}

// GetDSN returns the driver-specific data source name. For sqlite, Database
// is the file path (":memory:" for an in-memory store).
func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == DriverSQLite {
		timeout := d.LockWaitTimeoutSeconds * 1000
		return fmt.Sprintf("%s?_busy_timeout=%d&_foreign_keys=on", d.Database, timeout)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&innodb_lock_wait_timeout=%d",
		d.Username, d.Password, d.Host, d.Port, d.Database, d.LockWaitTimeoutSeconds)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Enabled reports whether a Redis endpoint is configured.
func (r *RedisConfig) Enabled() bool {
	return r.Host != ""
}

type LicenseConfig struct {
	KeyPrefix             string `mapstructure:"key_prefix"`
	KeyHexBytes           int    `mapstructure:"key_hex_bytes"`
	DefaultExpirationDays int    `mapstructure:"default_expiration_days"`
	KeyGenerationAttempts int    `mapstructure:"key_generation_attempts"`
}

type IdempotencyConfig struct {
	Header            string `mapstructure:"header"`
	PendingTTLSeconds int    `mapstructure:"pending_ttl_seconds"`
}

func (i *IdempotencyConfig) PendingTTL() time.Duration {
	return time.Duration(i.PendingTTLSeconds) * time.Second
}

type RateLimitConfig struct {
	PublicRequestsPerMinute int `mapstructure:"public_requests_per_minute"`
}
