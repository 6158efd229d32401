package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tiendago/backend/internal/messaging"
)

// Config holds everything the process reads from the environment. Every
// field has a default suitable for local development.
type Config struct {
	Port string

	Database DatabaseConfig
	Redis    RedisConfig
	RabbitMQ messaging.Config

	JWTSecret string
	TokenTTL  time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func Load() Config {
	return Config{
		Port: getEnvOrDefault("PORT", "8080"),
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			Name:     getEnvOrDefault("DB_NAME", "tiendago"),
			SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getEnvIntOrDefault("REDIS_DB", 0),
		},
		RabbitMQ: messaging.Config{
			Host:       getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:       getEnvIntOrDefault("RABBITMQ_PORT", 5672),
			Username:   getEnvOrDefault("RABBITMQ_USER", "guest"),
			Password:   getEnvOrDefault("RABBITMQ_PASSWORD", "guest"),
			VHost:      getEnvOrDefault("RABBITMQ_VHOST", "/"),
			Exchange:   getEnvOrDefault("RABBITMQ_EXCHANGE", "shop.orders"),
			RetryCount: getEnvIntOrDefault("RABBITMQ_RETRY_COUNT", 5),
			RetryDelay: time.Duration(getEnvIntOrDefault("RABBITMQ_RETRY_DELAY_SECONDS", 5)) * time.Second,
		},
		JWTSecret: getEnvOrDefault("JWT_SECRET", "secreto_super_seguro_2024"),
		TokenTTL:  time.Duration(getEnvIntOrDefault("JWT_TTL_HOURS", 24*7)) * time.Hour,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
