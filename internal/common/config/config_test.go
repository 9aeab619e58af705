// internal/common/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)

	assert.Equal(t, "salescrm-notifier", cfg.App.Name)
	assert.Equal(t, ":9090", cfg.App.MetricsAddr)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, 10*time.Second, cfg.FCM.Timeout)
	assert.Equal(t, 20, cfg.Notifications.PoolSize)
	assert.Equal(t, "0 8 * * *", cfg.Notifications.SweepSchedule)
	assert.Equal(t, "Asia/Kolkata", cfg.Notifications.Timezone)
	assert.Equal(t, time.Hour, cfg.Notifications.SweepLockTTL)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{}
	cfg.Notifications.PoolSize = 4
	cfg.Notifications.Timezone = "UTC"
	applyDefaults(&cfg)

	assert.Equal(t, 4, cfg.Notifications.PoolSize)
	assert.Equal(t, "UTC", cfg.Notifications.Timezone)
}

func TestSendURL(t *testing.T) {
	f := FCMConfig{ProjectID: "crm-prod"}
	assert.Equal(t, "https://fcm.googleapis.com/v1/projects/crm-prod/messages:send", f.SendURL())

	f.Endpoint = "http://127.0.0.1:8089"
	assert.Equal(t, "http://127.0.0.1:8089/v1/projects/crm-prod/messages:send", f.SendURL())
}

func TestValidateConfig(t *testing.T) {
	cfg := Config{}
	applyDefaults(&cfg)
	cfg.FCM.ProjectID = "crm-prod"
	cfg.Database.Postgres.Database = "crm"

	assert.NoError(t, validateConfig(&cfg))

	cfg.Notifications.Timezone = "Not/AZone"
	assert.Error(t, validateConfig(&cfg))

	cfg.Notifications.Timezone = "Asia/Kolkata"
	cfg.FCM.ProjectID = ""
	assert.Error(t, validateConfig(&cfg))
}

func TestGetDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "db", Port: 5432, User: "crm", Password: "secret",
		Database: "crm", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=crm password=secret dbname=crm sslmode=disable", p.GetDSN())
}
