package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("MP_ACCESS_TOKEN", "TEST-token")
		t.Setenv("APP_ENV", "test")
		t.Setenv("DELIVERY_FEE", "1500.50")
		t.Setenv("MP_TIMEOUT", "3s")
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
		t.Setenv("RECONCILE_ENABLED", "false")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "TEST-token", cfg.MPAccessToken)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.True(t, decimal.RequireFromString("1500.50").Equal(cfg.DeliveryFee))
		assert.Equal(t, 3*time.Second, cfg.MPTimeout)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
		assert.False(t, cfg.ReconcileEnabled)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("APP_ENV", "")
		t.Setenv("MP_TIMEOUT", "not-a-duration")

		cfg := LoadConfig()

		assert.Equal(t, "development", cfg.AppEnv)
		assert.Equal(t, "ARS", cfg.Currency)
		assert.Equal(t, "https://api.mercadopago.com", cfg.MPBaseURL)
		assert.Equal(t, 10*time.Second, cfg.MPTimeout)
		assert.Equal(t, 15*time.Minute, cfg.ReconcileMinAge)
		assert.True(t, cfg.DeliveryFee.IsZero())
		assert.Nil(t, cfg.KafkaBrokers)
	})
}

func TestValidate(t *testing.T) {
	t.Run("Development tolerates missing secrets", func(t *testing.T) {
		cfg := &Config{AppEnv: "development"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Production requires secrets", func(t *testing.T) {
		cfg := &Config{AppEnv: "production"}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
		assert.Contains(t, err.Error(), "MP_WEBHOOK_SECRET")
	})

	t.Run("Production complete", func(t *testing.T) {
		cfg := &Config{
			AppEnv:          "production",
			JWTSecret:       "s",
			MPAccessToken:   "t",
			MPWebhookSecret: "w",
		}
		assert.NoError(t, cfg.Validate())
	})
}
