package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Development bool
	LogLevel    string `validate:"omitempty,oneof=debug info warn error"`
	// API configuration
	APIPort        int `validate:"min=1,max=65535"`
	MetricsEnabled bool

	// Database configuration
	DatabaseDriver string `validate:"oneof=postgres sqlite"`
	SQLitePath     string `validate:"required_if=DatabaseDriver sqlite"`
	// Postgres configuration
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string `validate:"required_if=DatabaseDriver postgres"`
	PostgresPort     int    `validate:"min=1,max=65535"`
	PostgresDB       string `validate:"required_if=DatabaseDriver postgres"`

	// Verification configuration
	DefaultTokenDecimals int32         `validate:"min=0,max=77"`
	ExpiryPolicy         string        `validate:"oneof=none read sweep"`
	ExpirySweepInterval  time.Duration `validate:"min=1s"`
	TransferLogSelection string        `validate:"oneof=recipient first"`

	// RPC configuration
	RPCTimeout   time.Duration `validate:"gt=0"`
	RPCRateLimit float64       `validate:"gt=0"`
	RPCRateBurst int           `validate:"min=1"`

	// Token decimals cache
	DecimalsCacheSize int           `validate:"min=1"`
	DecimalsCacheTTL  time.Duration `validate:"gt=0"`

	// Webhook configuration
	WebhookSecret  string
	WebhookTimeout time.Duration `validate:"gt=0"`

	// SMTP configuration
	SMTPHost     string
	SMTPPort     int `validate:"min=0,max=65535"`
	SMTPUser     string
	SMTPPassword string
	SMTPSender   string `validate:"omitempty,email"`

	// Notification configuration
	TelegramBotToken string
	TelegramChatID   int64 `validate:"required_with=TelegramBotToken"`

	// InstanceID names this process in distributed locks
	InstanceID string `validate:"required"`
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "kyro"
	}

	cfg := &Config{
		Development:    getEnvAsBool("DEVELOPMENT", false),
		LogLevel:       getEnv("LOG_LEVEL", ""),
		APIPort:        getEnvAsInt("API_PORT", 6532),
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),

		DatabaseDriver:   getEnv("DATABASE_DRIVER", DriverPostgres),
		SQLitePath:       getEnv("SQLITE_PATH", "kyro.db"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresDB:       getEnv("POSTGRES_DB", "kyro"),

		DefaultTokenDecimals: int32(getEnvAsInt("DEFAULT_TOKEN_DECIMALS", 18)),
		ExpiryPolicy:         getEnv("EXPIRY_POLICY", "read"),
		ExpirySweepInterval:  getEnvAsDuration("EXPIRY_SWEEP_INTERVAL", time.Minute),
		TransferLogSelection: getEnv("TRANSFER_LOG_SELECTION", "recipient"),

		RPCTimeout:   getEnvAsDuration("RPC_TIMEOUT", 15*time.Second),
		RPCRateLimit: getEnvAsFloat("RPC_RATE_LIMIT", 10),
		RPCRateBurst: getEnvAsInt("RPC_RATE_BURST", 20),

		DecimalsCacheSize: getEnvAsInt("DECIMALS_CACHE_SIZE", 1024),
		DecimalsCacheTTL:  getEnvAsDuration("DECIMALS_CACHE_TTL", 24*time.Hour),

		WebhookSecret:  getEnv("WEBHOOK_SECRET", ""),
		WebhookTimeout: getEnvAsDuration("WEBHOOK_TIMEOUT", 10*time.Second),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPSender:   getEnv("SMTP_SENDER", ""),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnvAsInt64("TELEGRAM_CHAT_ID", 0),

		InstanceID: getEnv("INSTANCE_ID", hostname),
	}

	return cfg, nil
}

// Validate checks enums and ranges. It runs after CLI flag overrides.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.SMTPHost != "" && c.SMTPSender == "" {
		return fmt.Errorf("invalid configuration: SMTP_SENDER is required when SMTP_HOST is set")
	}
	return nil
}

// EmailEnabled reports whether payer receipts are sent
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != ""
}

// TelegramEnabled reports whether operator messages are sent
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != ""
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsInt64(name string, defaultValue int64) int64 {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsFloat(name string, defaultValue float64) float64 {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
