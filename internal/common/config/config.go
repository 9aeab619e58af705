// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Database      DatabaseConfig     `mapstructure:"database"`
	FCM           FCMConfig          `mapstructure:"fcm"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// FCMConfig holds the Firebase Cloud Messaging HTTP v1 API settings.
type FCMConfig struct {
	ProjectID          string        `mapstructure:"project_id"`
	ServiceAccountPath string        `mapstructure:"service_account_path"`
	Endpoint           string        `mapstructure:"endpoint"` // override for tests; empty means the real FCM host
	Timeout            time.Duration `mapstructure:"timeout"`
}

// SendURL returns the messages:send endpoint for the configured project.
func (f FCMConfig) SendURL() string {
	host := f.Endpoint
	if host == "" {
		host = "https://fcm.googleapis.com"
	}
	return fmt.Sprintf("%s/v1/projects/%s/messages:send", host, f.ProjectID)
}

// NotificationConfig holds settings for the reminder sweep and push fan-out.
type NotificationConfig struct {
	PoolSize      int           `mapstructure:"pool_size"`      // max concurrent outbound pushes
	SweepSchedule string        `mapstructure:"sweep_schedule"` // cron expression, schedule at most once per day
	Timezone      string        `mapstructure:"timezone"`       // reference zone for day-boundary computation
	SweepLockTTL  time.Duration `mapstructure:"sweep_lock_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
