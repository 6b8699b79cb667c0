package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the full application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Logging  LoggingConfig
	PayFast  PayFastConfig
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Port            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	// SiteURL is the public base URL of the dashboard, used to build
	// return/cancel/notify callback URLs handed to the gateway.
	SiteURL string
}

// DatabaseConfig configures PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// KafkaConfig configures the event producer
type KafkaConfig struct {
	Brokers []string
	Enabled bool
}

// LoggingConfig configures the logger
type LoggingConfig struct {
	Level string
}

// PayFastConfig configures the PayFast gateway integration.
// Read once at startup; immutable for the process lifetime.
type PayFastConfig struct {
	MerchantID  string
	MerchantKey string
	Passphrase  string
	Sandbox     bool
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// GetMigrationURL returns the connection URL used by golang-migrate
func (c *DatabaseConfig) GetMigrationURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30),
			SiteURL:         getEnv("SITE_URL", "http://localhost:3001"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Database: getEnv("DB_NAME", "billing_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Enabled: getEnvAsBool("KAFKA_ENABLED", true),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		PayFast: PayFastConfig{
			MerchantID:  getEnv("PAYFAST_MERCHANT_ID", ""),
			MerchantKey: getEnv("PAYFAST_MERCHANT_KEY", ""),
			Passphrase:  getEnv("PAYFAST_PASSPHRASE", ""),
			Sandbox:     getEnvAsBool("PAYFAST_SANDBOX", true),
		},
	}

	if cfg.PayFast.MerchantID == "" || cfg.PayFast.MerchantKey == "" || cfg.PayFast.Passphrase == "" {
		return nil, fmt.Errorf("incomplete PayFast configuration: PAYFAST_MERCHANT_ID, PAYFAST_MERCHANT_KEY and PAYFAST_PASSPHRASE are required")
	}

	return cfg, nil
}

// getEnv reads an environment variable or returns the default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as int or returns the default value
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool reads an environment variable as bool or returns the default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
