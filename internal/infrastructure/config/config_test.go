package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"NEXIMP_APP_NAME":                  os.Getenv("NEXIMP_APP_NAME"),
		"NEXIMP_APP_ENV":                   os.Getenv("NEXIMP_APP_ENV"),
		"NEXIMP_APP_PORT":                  os.Getenv("NEXIMP_APP_PORT"),
		"NEXIMP_DATABASE_HOST":             os.Getenv("NEXIMP_DATABASE_HOST"),
		"NEXIMP_DATABASE_PASSWORD":         os.Getenv("NEXIMP_DATABASE_PASSWORD"),
		"NEXIMP_DATABASE_SSLMODE":          os.Getenv("NEXIMP_DATABASE_SSLMODE"),
		"NEXIMP_RECEIPT_PAYEE_ADDRESS":     os.Getenv("NEXIMP_RECEIPT_PAYEE_ADDRESS"),
		"NEXIMP_DELIVERY_NOTIFY_CHANNEL":   os.Getenv("NEXIMP_DELIVERY_NOTIFY_CHANNEL"),
		"NEXIMP_DELIVERY_RETRY_ATTEMPTS":   os.Getenv("NEXIMP_DELIVERY_RETRY_ATTEMPTS"),
		"NEXIMP_HTTP_CORS_ALLOW_ORIGINS":   os.Getenv("NEXIMP_HTTP_CORS_ALLOW_ORIGINS"),
		"NEXIMP_MAIL_API_URL":              os.Getenv("NEXIMP_MAIL_API_URL"),
		"NEXIMP_SMS_SENDER_ID":             os.Getenv("NEXIMP_SMS_SENDER_ID"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "neximp-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "neximp", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "INR", cfg.Receipt.Currency)
		assert.Equal(t, "Neximp", cfg.Receipt.PayeeName)
		assert.Equal(t, "email", cfg.Delivery.NotifyChannel)
		assert.Equal(t, 128, cfg.Delivery.QueueSize)
		assert.Equal(t, 3, cfg.Delivery.RetryAttempts)
		assert.Equal(t, 5*time.Second, cfg.Delivery.RetryDelay)
		assert.Equal(t, 30*time.Second, cfg.Mail.Timeout)
		assert.Equal(t, "NEXIMP", cfg.SMS.SenderID)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("NEXIMP_APP_PORT", "9090")
		os.Setenv("NEXIMP_DATABASE_HOST", "db.internal")
		os.Setenv("NEXIMP_RECEIPT_PAYEE_ADDRESS", "neximp@upi")
		os.Setenv("NEXIMP_DELIVERY_NOTIFY_CHANNEL", "sms")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "neximp@upi", cfg.Receipt.PayeeAddress)
		assert.Equal(t, "sms", cfg.Delivery.NotifyChannel)
	})

	t.Run("rejects unknown notify channel", func(t *testing.T) {
		clearEnv()
		os.Setenv("NEXIMP_DELIVERY_NOTIFY_CHANNEL", "pigeon")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("production requires database password", func(t *testing.T) {
		clearEnv()
		os.Setenv("NEXIMP_APP_ENV", "production")
		os.Setenv("NEXIMP_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("production rejects sslmode disable", func(t *testing.T) {
		clearEnv()
		os.Setenv("NEXIMP_APP_ENV", "production")
		os.Setenv("NEXIMP_DATABASE_PASSWORD", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "neximp",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// special characters must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "localhost", Port: 6379}
	assert.Equal(t, "localhost:6379", r.Addr())
}
