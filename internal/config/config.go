package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppEnv  string
	AppPort string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	JWTSecret  string
	JWTTTL     time.Duration
	CORSOrigin string

	// Used to skip rate limiting for trusted internal callers.
	InternalSecretKey string

	MPAccessToken         string
	MPWebhookSecret       string
	MPBaseURL             string
	MPNotificationURL     string
	MPSuccessURL          string
	MPFailureURL          string
	MPPendingURL          string
	MPStatementDescriptor string
	MPTimeout             time.Duration
	MPMaxRetries          int

	Currency    string
	DeliveryFee decimal.Decimal

	HomeCacheTTL time.Duration
	CartTTL      time.Duration

	ReconcileEnabled     bool
	ReconcileInterval    time.Duration
	ReconcileMinAge      time.Duration
	ReconcileExpireAfter time.Duration
	ReconcileBatchSize   int

	KafkaBrokers []string
	KafkaTopic   string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:  getEnv("APP_ENV", "development"),
		AppPort: getEnv("APP_PORT", "8080"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		JWTTTL:     getDuration("JWT_TTL", 24*time.Hour),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		InternalSecretKey: os.Getenv("INTERNAL_SECRET_KEY"),

		MPAccessToken:         os.Getenv("MP_ACCESS_TOKEN"),
		MPWebhookSecret:       os.Getenv("MP_WEBHOOK_SECRET"),
		MPBaseURL:             getEnv("MP_BASE_URL", "https://api.mercadopago.com"),
		MPNotificationURL:     os.Getenv("MP_NOTIFICATION_URL"),
		MPSuccessURL:          os.Getenv("SUCCESS_URL"),
		MPFailureURL:          os.Getenv("FAILURE_URL"),
		MPPendingURL:          os.Getenv("PENDING_URL"),
		MPStatementDescriptor: getEnv("MP_STATEMENT_DESCRIPTOR", "PAULA PASTAS"),
		MPTimeout:             getDuration("MP_TIMEOUT", 10*time.Second),
		MPMaxRetries:          getInt("MP_MAX_RETRIES", 3),

		Currency:    getEnv("CURRENCY", "ARS"),
		DeliveryFee: getDecimal("DELIVERY_FEE", decimal.Zero),

		HomeCacheTTL: getDuration("HOME_CACHE_TTL", 5*time.Minute),
		CartTTL:      getDuration("CART_TTL", 30*24*time.Hour),

		ReconcileEnabled:     getBool("RECONCILE_ENABLED", true),
		ReconcileInterval:    getDuration("RECONCILE_INTERVAL", 10*time.Minute),
		ReconcileMinAge:      getDuration("RECONCILE_MIN_AGE", 15*time.Minute),
		ReconcileExpireAfter: getDuration("RECONCILE_EXPIRE_AFTER", 72*time.Hour),
		ReconcileBatchSize:   getInt("RECONCILE_BATCH_SIZE", 50),

		KafkaBrokers: getList("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "orders"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate rejects settings that are only tolerated outside production.
func (c *Config) Validate() error {
	if !c.IsProduction() {
		return nil
	}

	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	if c.MPAccessToken == "" {
		errs = append(errs, errors.New("MP_ACCESS_TOKEN is required in production"))
	}
	if c.MPWebhookSecret == "" {
		errs = append(errs, errors.New("MP_WEBHOOK_SECRET is required in production"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration for %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid integer for %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		log.Printf("invalid decimal for %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
