package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port     int
	LogLevel string
	Env      string
	DB       DBConfig
	Mongo    MongoConfig
	Printer  PrinterConfig
	Kafka    KafkaConfig
	Outbox   OutboxConfig
	Limits   RateLimitConfig
}

// DBConfig holds the database configuration
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// MongoConfig holds the coupon document store configuration
type MongoConfig struct {
	URI      string
	Database string
}

// PrinterConfig holds the print-on-demand gateway configuration
type PrinterConfig struct {
	BaseURL string
	Timeout time.Duration
}

// KafkaConfig holds the order events configuration. An empty broker list
// disables publishing to Kafka.
type KafkaConfig struct {
	Brokers     []string
	OrdersTopic string
}

type OutboxConfig struct {
	PollingInterval time.Duration
	BatchSize       int
	MaxRetries      int
}

// RateLimitConfig bounds how often one client may trigger a printer status
// refresh. A zero burst disables the limit.
type RateLimitConfig struct {
	PrinterRefreshBurst  int
	PrinterRefreshPerSec float64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "munchclub")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "munchclub")
	v.SetDefault("PRINTER_GATEWAY_URL", "http://localhost:9090")
	v.SetDefault("PRINTER_GATEWAY_TIMEOUT", "5s")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_ORDERS_TOPIC", "order-events")
	v.SetDefault("OUTBOX_POLL_INTERVAL", "5s")
	v.SetDefault("OUTBOX_BATCH_SIZE", 10)
	v.SetDefault("OUTBOX_MAX_RETRIES", 3)
	v.SetDefault("PRINTER_REFRESH_BURST", 10)
	v.SetDefault("PRINTER_REFRESH_RATE", 1.0)
}

// Load reads the configuration from environment variables and returns a Config struct.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	port := v.GetInt("PORT")

	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port: %q", v.GetString("PORT"))
	}

	dbPort := v.GetInt("DB_PORT")

	if dbPort <= 0 {
		return nil, fmt.Errorf("invalid DB_PORT: %q", v.GetString("DB_PORT"))
	}

	printerTimeout, err := time.ParseDuration(v.GetString("PRINTER_GATEWAY_TIMEOUT"))

	if err != nil || printerTimeout <= 0 {
		return nil, fmt.Errorf("invalid PRINTER_GATEWAY_TIMEOUT: %q", v.GetString("PRINTER_GATEWAY_TIMEOUT"))
	}

	pollInterval, err := time.ParseDuration(v.GetString("OUTBOX_POLL_INTERVAL"))

	if err != nil || pollInterval <= 0 {
		return nil, fmt.Errorf("invalid OUTBOX_POLL_INTERVAL: %q", v.GetString("OUTBOX_POLL_INTERVAL"))
	}

	refreshRate := v.GetFloat64("PRINTER_REFRESH_RATE")

	if refreshRate < 0 {
		return nil, fmt.Errorf("invalid PRINTER_REFRESH_RATE: %q", v.GetString("PRINTER_REFRESH_RATE"))
	}

	return &Config{
		Port:     port,
		LogLevel: v.GetString("LOG_LEVEL"),
		Env:      v.GetString("APP_ENV"),
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     dbPort,
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
		},
		Printer: PrinterConfig{
			BaseURL: strings.TrimRight(v.GetString("PRINTER_GATEWAY_URL"), "/"),
			Timeout: printerTimeout,
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			OrdersTopic: v.GetString("KAFKA_ORDERS_TOPIC"),
		},
		Outbox: OutboxConfig{
			PollingInterval: pollInterval,
			BatchSize:       v.GetInt("OUTBOX_BATCH_SIZE"),
			MaxRetries:      v.GetInt("OUTBOX_MAX_RETRIES"),
		},
		Limits: RateLimitConfig{
			PrinterRefreshBurst:  v.GetInt("PRINTER_REFRESH_BURST"),
			PrinterRefreshPerSec: refreshRate,
		},
	}, nil
}

// GetDBConnString returns the database connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}

// KafkaEnabled reports whether order events should go to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

func splitList(raw string) []string {
	var out []string

	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	return out
}
